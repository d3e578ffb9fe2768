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
	"sync"

	"github.com/rs/zerolog"

	"github.com/ton-org/vanity/cldevice"
	"github.com/ton-org/vanity/concurrent"
	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/sink"
	"github.com/ton-org/vanity/validate"
)

// DeviceOutcome is what one device's RunDevice call reports back to
// the orchestrating Dispatcher.
type DeviceOutcome struct {
	DeviceName string
	Err        error
}

// deviceRunner adapts the per-device RunDevice loop to
// concurrent.Dispatchable: one worker goroutine per device, a single
// evaluator goroutine that aggregates outcomes and decides when the
// whole search should wind down (the first fatal error, or every
// device finishing cleanly).
type deviceRunner struct {
	ctx      context.Context
	sc       *Context
	cfg      *pattern.Config
	ownerRaw []byte
	reqCfg   validate.RequestConfig
	sk       *sink.Sink
	log      zerolog.Logger

	total int

	mu       sync.Mutex
	finished int
	firstErr error
	done     chan struct{}
}

// Worker runs at most one device per dispatcher slot: RunAll submits
// exactly len(devices) tasks against a pool of the same size, so each
// worker drains one device, runs it to completion, and reports back.
func (r *deviceRunner) Worker(ctx context.Context, _ int, taskCh chan cldevice.Device, resCh chan DeviceOutcome) {
	for {
		select {
		case <-ctx.Done():
			return
		case dev, ok := <-taskCh:
			if !ok {
				return
			}
			err := RunDevice(ctx, r.sc, dev, r.cfg, r.ownerRaw, r.reqCfg, r.sk, r.log.With().Str("device", dev.Info().Name).Logger())
			dev.Close()
			select {
			case resCh <- DeviceOutcome{DeviceName: dev.Info().Name, Err: err}:
			case <-ctx.Done():
			}
		}
	}
}

// Eval stops the dispatcher (and every remaining device worker, via
// context cancellation) as soon as one device reports a fatal error,
// or once every device has finished on its own (the ordinary
// only_one/exhausted-search path).
func (r *deviceRunner) Eval(result DeviceOutcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.Err != nil {
		r.log.Error().Err(result.Err).Str("device", result.DeviceName).Msg("device worker failed")
		if r.firstErr == nil {
			r.firstErr = result.Err
		}
	}
	r.finished++

	stop := result.Err != nil || r.finished >= r.total
	if stop {
		close(r.done)
	}
	return stop
}

// RunAll drives every discovered device concurrently via a
// concurrent.Dispatcher, and returns the first fatal error any device
// reported (nil if the search ended cleanly — only_one satisfied, or
// every device exhausted its work without error).
func RunAll(ctx context.Context, sc *Context, devices []cldevice.Device, cfg *pattern.Config, ownerRaw []byte, reqCfg validate.RequestConfig, sk *sink.Sink, log zerolog.Logger) error {
	runner := &deviceRunner{
		ctx:      ctx,
		sc:       sc,
		cfg:      cfg,
		ownerRaw: ownerRaw,
		reqCfg:   reqCfg,
		sk:       sk,
		log:      log,
		total:    len(devices),
		done:     make(chan struct{}),
	}

	disp := concurrent.NewDispatcher[cldevice.Device, DeviceOutcome](ctx, len(devices), runner)
	for _, dev := range devices {
		disp.Process(dev)
	}

	select {
	case <-runner.done:
	case <-ctx.Done():
	}
	sc.Stop()
	return runner.firstErr
}
