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

package cldevice

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/tonaddr"
)

// simDevice evaluates candidates in a plain Go loop instead of
// dispatching an OpenCL kernel. It applies the same per-candidate
// constraint check (mask + ambiguity table) a real kernel would, so
// the worker/validator/sink/reporter pipeline stays exercised without
// requiring a GPU or OpenCL runtime.
type simDevice struct {
	cfg      *pattern.Config
	ownerRaw []byte
	info     Info
}

// NewSimDevice builds the pure-Go fallback device for cfg/ownerRaw.
func NewSimDevice(cfg *pattern.Config, ownerRaw []byte) Device {
	return &simDevice{
		cfg:      cfg,
		ownerRaw: ownerRaw,
		info:     Info{Name: "simulated", Vendor: "Other", ComputeUnits: 1, MaxWorkGroupSize: 256},
	}
}

func (d *simDevice) Info() Info { return d.info }

func (d *simDevice) Close() error { return nil }

func (d *simDevice) Dispatch(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (BatchResult, error) {
	var res BatchResult

	for idx := 0; idx < globalThreads; idx++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		for iter := 0; iter < iterations; iter++ {
			salt := deriveSalt(baseSalt, uint32(iter), uint32(idx))
			code, err := tonaddr.BuildCodeRepr(d.ownerRaw, salt[:])
			if err != nil {
				return res, err
			}
			codeHash := sha256.Sum256(code)

			for variantIdx, variant := range d.cfg.StateInitVariants {
				main := make([]byte, 0, len(variant)+len(codeHash))
				main = append(main, variant...)
				main = append(main, codeHash[:]...)
				mainHash := sha256.Sum256(main)

				repr := d.cfg.BuildRepr(mainHash)
				if !d.cfg.PassesKernelFilter(repr) {
					continue
				}
				if len(res.Slots) >= MaxResultSlots {
					continue
				}
				res.Slots = append(res.Slots, ResultSlot{
					IterIdx:    uint32(iter),
					Idx:        uint32(idx),
					VariantIdx: uint32(variantIdx),
				})
				res.FoundCount++
			}
		}
	}
	return res, nil
}

// deriveSalt XORs iter into salt word 0 and idx into salt word 1
// (32-bit little-endian words), matching the validator's salt
// reconstruction rule.
func deriveSalt(base [16]byte, iter, idx uint32) [16]byte {
	out := base
	w0 := binary.LittleEndian.Uint32(out[0:4]) ^ iter
	w1 := binary.LittleEndian.Uint32(out[4:8]) ^ idx
	binary.LittleEndian.PutUint32(out[0:4], w0)
	binary.LittleEndian.PutUint32(out[4:8], w1)
	return out
}
