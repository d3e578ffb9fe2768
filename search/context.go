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

// Package search drives the per-device worker loop (spec.md §4.5)
// against the shared SearchContext: an atomic stop flag, an atomic
// found counter, and a lock-protected running total of evaluated
// candidates that the reporter samples.
package search

import (
	"sync"
	"sync/atomic"

	"github.com/ton-org/vanity/reporter"
)

// Context is the state every device worker and the reporter share.
// Workers only ever read KernelConfig-derived data immutably; the
// fields here are the only mutable shared state, each guarded the way
// spec.md §5 describes (atomics for stop/found, a lock for the
// running total).
type Context struct {
	onlyOne bool

	stopFlag atomic.Bool
	found    atomic.Int64

	mu         sync.Mutex
	totalIters uint64
}

// NewContext builds a fresh SearchContext. onlyOne makes the first
// successful persist stop the whole search.
func NewContext(onlyOne bool) *Context {
	return &Context{onlyOne: onlyOne}
}

// OnlyOne reports whether the search should stop after the first hit.
func (c *Context) OnlyOne() bool { return c.onlyOne }

// Stop requests every worker to wind down at its next batch boundary.
func (c *Context) Stop() { c.stopFlag.Store(true) }

// Stopped reports whether Stop has been called.
func (c *Context) Stopped() bool { return c.stopFlag.Load() }

// AddFound increments the found counter and returns its new value.
func (c *Context) AddFound(n int64) int64 { return c.found.Add(n) }

// Found returns the current found count.
func (c *Context) Found() int64 { return c.found.Load() }

// AddIters adds n evaluated candidates to the running total.
func (c *Context) AddIters(n uint64) {
	c.mu.Lock()
	c.totalIters += n
	c.mu.Unlock()
}

// Snapshot implements reporter.StatsSource.
func (c *Context) Snapshot() reporter.Snapshot {
	c.mu.Lock()
	total := c.totalIters
	c.mu.Unlock()
	return reporter.Snapshot{Found: c.found.Load(), TotalIters: total}
}
