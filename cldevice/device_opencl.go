//----------------------------------------------------------------------
// This file is part of vanity.
// Copyright (C) 2026 ton-org
//
// vanity is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// vanity is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

//go:build opencl

package cldevice

/*
#cgo linux LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL
#cgo windows LDFLAGS: -lOpenCL

#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif

#include <stdlib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/ton-org/vanity/apperr"
	"github.com/ton-org/vanity/pattern"
)

// clDevice drives one real OpenCL device through the cgo bindings
// above, reusing the program/buffer lifecycle shape of the HexHunter
// GPU generator this package is grounded on.
type clDevice struct {
	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue
	program  C.cl_program
	kernel   C.cl_kernel

	bufFoundCount C.cl_mem
	bufResults    C.cl_mem

	info Info
}

func (d *clDevice) Info() Info { return d.info }

func (d *clDevice) Close() error {
	if d.bufFoundCount != nil {
		C.clReleaseMemObject(d.bufFoundCount)
	}
	if d.bufResults != nil {
		C.clReleaseMemObject(d.bufResults)
	}
	if d.kernel != nil {
		C.clReleaseKernel(d.kernel)
	}
	if d.program != nil {
		C.clReleaseProgram(d.program)
	}
	if d.queue != nil {
		C.clReleaseCommandQueue(d.queue)
	}
	if d.context != nil {
		C.clReleaseContext(d.context)
	}
	return nil
}

func (d *clDevice) Dispatch(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (BatchResult, error) {
	var res BatchResult

	select {
	case <-ctx.Done():
		return res, ctx.Err()
	default:
	}

	zero := uint32(0)
	if ret := C.clEnqueueWriteBuffer(d.queue, d.bufFoundCount, C.CL_TRUE, 0, 4,
		unsafe.Pointer(&zero), 0, nil, nil); ret != C.CL_SUCCESS {
		return res, fmt.Errorf("cldevice: reset found_count failed: %d", ret)
	}

	s0 := leUint32(baseSalt[0:4])
	s1 := leUint32(baseSalt[4:8])
	s2 := leUint32(baseSalt[8:12])
	s3 := leUint32(baseSalt[12:16])

	iterC := C.int(iterations)
	C.clSetKernelArg(d.kernel, 0, C.size_t(unsafe.Sizeof(iterC)), unsafe.Pointer(&iterC))
	C.clSetKernelArg(d.kernel, 1, C.size_t(unsafe.Sizeof(s0)), unsafe.Pointer(&s0))
	C.clSetKernelArg(d.kernel, 2, C.size_t(unsafe.Sizeof(s1)), unsafe.Pointer(&s1))
	C.clSetKernelArg(d.kernel, 3, C.size_t(unsafe.Sizeof(s2)), unsafe.Pointer(&s2))
	C.clSetKernelArg(d.kernel, 4, C.size_t(unsafe.Sizeof(s3)), unsafe.Pointer(&s3))
	C.clSetKernelArg(d.kernel, 5, C.size_t(unsafe.Sizeof(d.bufFoundCount)), unsafe.Pointer(&d.bufFoundCount))
	C.clSetKernelArg(d.kernel, 6, C.size_t(unsafe.Sizeof(d.bufResults)), unsafe.Pointer(&d.bufResults))

	global := C.size_t(globalThreads)
	if ret := C.clEnqueueNDRangeKernel(d.queue, d.kernel, 1, nil, &global, nil, 0, nil, nil); ret != C.CL_SUCCESS {
		return res, fmt.Errorf("cldevice: kernel dispatch failed: %d", ret)
	}

	var foundCount uint32
	if ret := C.clEnqueueReadBuffer(d.queue, d.bufFoundCount, C.CL_TRUE, 0, 4,
		unsafe.Pointer(&foundCount), 0, nil, nil); ret != C.CL_SUCCESS {
		return res, fmt.Errorf("cldevice: read found_count failed: %d", ret)
	}
	if foundCount == 0 {
		return res, nil
	}

	n := int(foundCount)
	if n > MaxResultSlots {
		n = MaxResultSlots
	}
	raw := make([]uint32, n*3)
	if ret := C.clEnqueueReadBuffer(d.queue, d.bufResults, C.CL_TRUE, 0, C.size_t(len(raw)*4),
		unsafe.Pointer(&raw[0]), 0, nil, nil); ret != C.CL_SUCCESS {
		return res, fmt.Errorf("cldevice: read result_slots failed: %d", ret)
	}

	res.FoundCount = n
	res.Slots = make([]ResultSlot, n)
	for i := 0; i < n; i++ {
		res.Slots[i] = ResultSlot{IterIdx: raw[i*3], Idx: raw[i*3+1], VariantIdx: raw[i*3+2]}
	}
	return res, nil
}

func leUint32(b []byte) C.uint {
	return C.uint(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

// Discover enumerates OpenCL GPU devices (falling back to all device
// types if no GPU is present), builds kernelSource on each, and falls
// back to the simulated device if no platform/device can be used.
func Discover(kernelSource string, cfg *pattern.Config, ownerRaw []byte) ([]Device, error) {
	var numPlatforms C.cl_uint
	if ret := C.clGetPlatformIDs(0, nil, &numPlatforms); ret != C.CL_SUCCESS || numPlatforms == 0 {
		return []Device{NewSimDevice(cfg, ownerRaw)}, nil
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)

	var devices []Device
	for _, platform := range platforms {
		found, err := devicesForPlatform(platform, kernelSource)
		if err != nil {
			continue
		}
		devices = append(devices, found...)
	}
	if len(devices) == 0 {
		return []Device{NewSimDevice(cfg, ownerRaw)}, nil
	}
	return devices, nil
}

func devicesForPlatform(platform C.cl_platform_id, kernelSource string) ([]Device, error) {
	deviceType := C.cl_device_type(C.CL_DEVICE_TYPE_GPU)
	var numDevices C.cl_uint
	if ret := C.clGetDeviceIDs(platform, deviceType, 0, nil, &numDevices); ret != C.CL_SUCCESS || numDevices == 0 {
		deviceType = C.CL_DEVICE_TYPE_ALL
		if ret := C.clGetDeviceIDs(platform, deviceType, 0, nil, &numDevices); ret != C.CL_SUCCESS || numDevices == 0 {
			return nil, apperr.New(ErrNoDevices, "platform has no usable devices")
		}
	}
	ids := make([]C.cl_device_id, numDevices)
	C.clGetDeviceIDs(platform, deviceType, numDevices, &ids[0], nil)

	out := make([]Device, 0, len(ids))
	for _, id := range ids {
		d, err := newCLDevice(platform, id, kernelSource)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func newCLDevice(platform C.cl_platform_id, id C.cl_device_id, kernelSource string) (*clDevice, error) {
	d := &clDevice{platform: platform, device: id, info: deviceInfo(id)}

	var ret C.cl_int
	d.context = C.clCreateContext(nil, 1, &d.device, nil, nil, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: context creation failed: %d", ret)
	}
	d.queue = C.clCreateCommandQueue(d.context, d.device, 0, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: queue creation failed: %d", ret)
	}

	src := C.CString(kernelSource)
	defer C.free(unsafe.Pointer(src))
	length := C.size_t(len(kernelSource))
	d.program = C.clCreateProgramWithSource(d.context, 1, &src, &length, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: program creation failed: %d", ret)
	}
	if ret := C.clBuildProgram(d.program, 1, &d.device, nil, nil, nil); ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: program build failed: %d", ret)
	}

	name := C.CString("hash_main")
	defer C.free(unsafe.Pointer(name))
	d.kernel = C.clCreateKernel(d.program, name, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: kernel creation failed: %d", ret)
	}

	d.bufFoundCount = C.clCreateBuffer(d.context, C.CL_MEM_READ_WRITE, 4, nil, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: found_count buffer failed: %d", ret)
	}
	d.bufResults = C.clCreateBuffer(d.context, C.CL_MEM_WRITE_ONLY, C.size_t(MaxResultSlots*3*4), nil, &ret)
	if ret != C.CL_SUCCESS {
		return nil, fmt.Errorf("cldevice: result_slots buffer failed: %d", ret)
	}
	return d, nil
}

func deviceInfo(id C.cl_device_id) Info {
	nameBuf := make([]byte, 256)
	var size C.size_t
	C.clGetDeviceInfo(id, C.CL_DEVICE_NAME, C.size_t(len(nameBuf)), unsafe.Pointer(&nameBuf[0]), &size)

	vendorBuf := make([]byte, 256)
	C.clGetDeviceInfo(id, C.CL_DEVICE_VENDOR, C.size_t(len(vendorBuf)), unsafe.Pointer(&vendorBuf[0]), &size)

	var cu C.cl_uint
	C.clGetDeviceInfo(id, C.CL_DEVICE_MAX_COMPUTE_UNITS, C.size_t(unsafe.Sizeof(cu)), unsafe.Pointer(&cu), nil)

	var mwgs C.size_t
	C.clGetDeviceInfo(id, C.CL_DEVICE_MAX_WORK_GROUP_SIZE, C.size_t(unsafe.Sizeof(mwgs)), unsafe.Pointer(&mwgs), nil)

	return Info{
		Name:             cString(nameBuf),
		Vendor:           vendorFamily(cString(vendorBuf)),
		ComputeUnits:     int(cu),
		MaxWorkGroupSize: int(mwgs),
	}
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func vendorFamily(raw string) string {
	switch {
	case containsFold(raw, "nvidia"):
		return "NVIDIA"
	case containsFold(raw, "amd") || containsFold(raw, "advanced micro devices"):
		return "AMD"
	case containsFold(raw, "apple"):
		return "Apple"
	default:
		return "Other"
	}
}

func containsFold(s, substr string) bool {
	sl, subl := []byte(s), []byte(substr)
	for i := 0; i+len(subl) <= len(sl); i++ {
		match := true
		for j := range subl {
			a, b := sl[i+j], subl[j]
			if a >= 'A' && a <= 'Z' {
				a += 32
			}
			if b >= 'A' && b <= 'Z' {
				b += 32
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
