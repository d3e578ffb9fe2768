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

// Package reporter prints the ≈1 Hz search status line. It is
// deliberately not routed through zerolog: the line has its own fixed
// wire format and is meant to be overwritten/tailed on a terminal, not
// structured-logged. The color escape technique mirrors the teacher's
// logger.ColorFormat.
package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// windowLength is the sliding window spec.md §6 names for rate averaging.
const windowLength = 20 * time.Second

// Snapshot is the point-in-time counters a Reporter samples.
type Snapshot struct {
	Found      int64
	TotalIters uint64
}

// StatsSource is anything a Reporter can poll for a Snapshot —
// search.Context implements this.
type StatsSource interface {
	Snapshot() Snapshot
}

type sample struct {
	at    time.Time
	found int64
	iters uint64
}

// Reporter prints one colored status line per tick to w, averaging
// both rates over a rolling window rather than an all-time average.
type Reporter struct {
	src     StatsSource
	w       io.Writer
	color   bool
	period  time.Duration
	metrics *Metrics

	mu      sync.Mutex
	samples []sample
}

// New builds a Reporter. color enables the ANSI escape wrapping.
func New(src StatsSource, w io.Writer, color bool) *Reporter {
	return &Reporter{src: src, w: w, color: color, period: time.Second}
}

// AttachMetrics makes every subsequent tick also push the sampled
// found count and windowed rate into m's gauges, so --metrics-addr
// reflects the same numbers the stdout status line does.
func (r *Reporter) AttachMetrics(m *Metrics) {
	r.metrics = m
}

// Run prints the status line every period until ctx-like stop is
// requested by closing done.
func (r *Reporter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			r.tick()
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Reporter) tick() {
	now := time.Now()
	snap := r.src.Snapshot()

	r.mu.Lock()
	r.samples = append(r.samples, sample{at: now, found: snap.Found, iters: snap.TotalIters})
	cutoff := now.Add(-windowLength)
	i := 0
	for i < len(r.samples) && r.samples[i].at.Before(cutoff) {
		i++
	}
	r.samples = r.samples[i:]
	first := r.samples[0]
	r.mu.Unlock()

	elapsed := now.Sub(first.at).Seconds()
	var foundRate, iterRate float64
	if elapsed > 0 {
		foundRate = float64(snap.Found-first.found) / elapsed
		iterRate = float64(snap.TotalIters-first.iters) / elapsed
	}

	line := fmt.Sprintf("Found %d (%.2f/s), %s iters/s", snap.Found, foundRate, formatRate(iterRate))
	fmt.Fprintln(r.w, r.decorate(line))

	if r.metrics != nil {
		r.metrics.Update(snap.Found, iterRate)
	}
}

// decorate wraps line in the teacher's bright-green ANSI escape when
// color output is enabled.
func (r *Reporter) decorate(line string) string {
	if !r.color {
		return line
	}
	return fmt.Sprintf("\033[01;32m%s\033[01;0m", line)
}

// formatRate renders a rate with a k/M/B/T unit suffix, matching
// spec.md §6's status-line contract.
func formatRate(rate float64) string {
	units := []struct {
		threshold float64
		suffix    string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "k"},
	}
	for _, u := range units {
		if rate >= u.threshold {
			return fmt.Sprintf("%.2f%s", rate/u.threshold, u.suffix)
		}
	}
	return fmt.Sprintf("%.2f", rate)
}
