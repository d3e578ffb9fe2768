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

// Package concurrent provides a generic fan-out/fan-in worker dispatcher.
// The search orchestrator (search.RunAll) uses it to run one worker
// goroutine per device: each worker runs its device's batch loop to
// completion, and a single evaluator goroutine collects the outcomes
// and decides whether the search should stop.
package concurrent

import (
	"context"
	"sync"
	"sync/atomic"
)

// Dispatchable is implemented by callers that want their T->R
// transformation spread across a worker pool, with serialized access
// to shared state via Eval.
type Dispatchable[T, R any] interface {

	// Worker drains taskCh until ctx is done, writing one result to
	// resCh per task it decides is worth reporting.
	Worker(ctx context.Context, n int, taskCh chan T, resCh chan R)

	// Eval runs in a single goroutine for every value sent to resCh.
	// Returning true stops the dispatcher (and cancels all workers).
	Eval(result R) bool
}

// Dispatcher owns a fixed pool of worker goroutines and the single
// evaluator goroutine that serializes access to Dispatchable.Eval.
type Dispatcher[T, R any] struct {
	taskCh  chan T
	resCh   chan R
	ctrl    chan int
	workers int
	running atomic.Bool
}

// NewDispatcher starts numWorker worker goroutines plus one evaluator
// goroutine, all bound to ctx.
func NewDispatcher[T, R any](ctx context.Context, numWorker int, disp Dispatchable[T, R]) *Dispatcher[T, R] {
	d := new(Dispatcher[T, R])
	d.taskCh = make(chan T)
	d.resCh = make(chan R)
	d.ctrl = make(chan int)
	d.workers = numWorker

	// start worker go-routines
	ctxD, cancel := context.WithCancel(ctx)
	wg := new(sync.WaitGroup)
	for n := 0; n < numWorker; n++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			disp.Worker(ctxD, num, d.taskCh, d.resCh)
		}(n)
	}

	// run evaluator loop
	d.running.Store(true)
	go func() {
		// clean-up on exit
		defer func() {
			d.running.Store(false)
			wg.Wait()
			close(d.taskCh)
			close(d.resCh)
		}()

		for {
			select {
			// handle termination
			case <-ctxD.Done():
				cancel()
				return
			case <-d.ctrl:
				cancel()
				return

			// handle result
			case x := <-d.resCh:
				if disp.Eval(x) {
					cancel()
					return
				}
			}
		}
	}()
	return d
}

// Process submits a task. Returns false if the dispatcher has already
// stopped (Eval returned true, or the context was cancelled).
func (d *Dispatcher[T, R]) Process(task T) bool {
	if !d.running.Load() {
		return false
	}
	d.taskCh <- task
	return true
}

// Running reports whether the dispatcher is still accepting tasks.
func (d *Dispatcher[T, R]) Running() bool {
	return d.running.Load()
}

// Workers returns the configured worker-pool size.
func (d *Dispatcher[T, R]) Workers() int {
	return d.workers
}

// Quit stops the dispatcher from the outside (e.g. on Ctrl-C), without
// requiring Eval to return true.
func (d *Dispatcher[T, R]) Quit() {
	d.ctrl <- 0
}
