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

// Package cldevice abstracts the OpenCL device a search worker drives:
// discovery, the vendor-based dispatch heuristics of spec.md §4.5, and
// the per-batch kernel dispatch contract. The real binding lives in
// device_opencl.go behind the "opencl" build tag; without it (or when
// no platform is found) Discover falls back to a pure-Go simDevice
// that runs the same mask+ambiguity constraint check a real kernel
// would, so the rest of the pipeline stays exercised and testable.
package cldevice

import (
	"context"
	"errors"
)

// ErrNoDevices is returned when no usable device — real or simulated —
// could be found.
var ErrNoDevices = errors.New("cldevice: no usable devices found")

// Info describes one device's identity and compute shape.
type Info struct {
	Name             string
	Vendor           string
	ComputeUnits     int
	MaxWorkGroupSize int
}

// Params is the (global_threads, local_size, iterations) triple a
// worker dispatches a batch with.
type Params struct {
	GlobalThreads int
	LocalSize     int
	Iterations    int
}

// ResultSlot is one (iter_idx, idx, variant_idx) hit candidate copied
// back from the device's result_slots buffer.
type ResultSlot struct {
	IterIdx    uint32
	Idx        uint32
	VariantIdx uint32
}

// MaxResultSlots is RES_SLOTS from spec.md §4.5.
const MaxResultSlots = 1024

// BatchResult is what one kernel dispatch reports back to the worker.
type BatchResult struct {
	FoundCount int
	Slots      []ResultSlot
}

// Device is one GPU (or simulated) compute device a search worker
// drives exclusively.
type Device interface {
	Info() Info
	// Dispatch launches one batch: globalThreads work items each
	// evaluating iterations candidates derived from baseSalt, and
	// returns every hit the kernel-side filter reported.
	Dispatch(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (BatchResult, error)
	Close() error
}

// ChooseParams implements the vendor heuristic table of spec.md §4.5.
func ChooseParams(info Info, nVariants int) Params {
	var p Params
	switch info.Vendor {
	case "NVIDIA", "AMD":
		p = Params{GlobalThreads: info.ComputeUnits * 2048, LocalSize: 256, Iterations: 4096}
	case "Apple":
		p = Params{GlobalThreads: info.ComputeUnits * 1024, LocalSize: 256, Iterations: 2048}
	default:
		p = Params{GlobalThreads: info.ComputeUnits * 1024, LocalSize: 128, Iterations: 2048}
	}

	if nVariants > 0 {
		p.Iterations /= nVariants
		if p.Iterations < 512 {
			p.Iterations = 512
		}
	}
	if info.MaxWorkGroupSize > 0 && p.LocalSize > info.MaxWorkGroupSize {
		p.LocalSize = info.MaxWorkGroupSize
	}
	return p
}
