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

package search

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ton-org/vanity/apperr"
	"github.com/ton-org/vanity/cldevice"
	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/sink"
	"github.com/ton-org/vanity/validate"
)

// ErrKernelHostDisagreement is the fatal error raised when the
// validator rejects a candidate the kernel reported as a hit.
var ErrKernelHostDisagreement = errors.New("search: kernel/host disagreement on reported hit")

// now is a package-level indirection so tests can stub the clock.
var now = func() float64 { return float64(time.Now().UnixNano()) / 1e9 }

// RunDevice runs one device's batch loop until sc is stopped, ctx is
// cancelled, or a fatal error occurs. It is meant to run in its own
// goroutine, one per discovered device, per spec.md §5.
func RunDevice(ctx context.Context, sc *Context, dev cldevice.Device, cfg *pattern.Config, ownerRaw []byte, reqCfg validate.RequestConfig, sk *sink.Sink, log zerolog.Logger) error {
	params := cldevice.ChooseParams(dev.Info(), cfg.NumVariants())
	candidatesPerBatch := uint64(params.GlobalThreads) * uint64(params.Iterations) * uint64(maxInt(cfg.NumVariants(), 1))

	log.Info().Str("device", dev.Info().Name).Int("global_threads", params.GlobalThreads).
		Int("iterations", params.Iterations).Msg("device worker starting")

	for !sc.Stopped() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var baseSalt [16]byte
		if _, err := rand.Read(baseSalt[:]); err != nil {
			return apperr.New(err, "search: generate base salt")
		}

		res, err := dev.Dispatch(ctx, params.GlobalThreads, params.Iterations, baseSalt)
		if err != nil {
			return apperr.New(err, "search: dispatch on device %s", dev.Info().Name)
		}

		for _, slot := range res.Slots {
			task := validate.HitTask{
				BaseSalt:   baseSalt,
				IterIdx:    slot.IterIdx,
				Idx:        slot.Idx,
				VariantIdx: slot.VariantIdx,
				DeviceName: dev.Info().Name,
			}
			rec, verr := validate.Validate(cfg, ownerRaw, reqCfg, task, now())
			if verr != nil {
				sc.Stop()
				return apperr.New(ErrKernelHostDisagreement, "%v", verr)
			}
			if err := sk.Append(rec); err != nil {
				sc.Stop()
				return apperr.New(err, "search: persist record")
			}
			sc.AddFound(1)
			log.Info().Str("address", rec.Address).Msg("found vanity address")
			if sc.OnlyOne() {
				sc.Stop()
				break
			}
		}

		sc.AddIters(candidatesPerBatch)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
