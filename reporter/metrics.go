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

package reporter

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the status line's counters as Prometheus series on
// an HTTP server, an additive scrape surface alongside the stdout
// status line — it does not replace it.
type Metrics struct {
	found      prometheus.Gauge
	itersPerS  prometheus.Gauge
	devices    prometheus.Gauge
	registry   *prometheus.Registry
	server     *http.Server
}

// NewMetrics registers the three series on a fresh registry.
func NewMetrics(deviceCount int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		found: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "vanity_found_total",
			Help: "Number of vanity addresses found so far.",
		}),
		itersPerS: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "vanity_iters_per_second",
			Help: "Rolling-window iteration throughput across all devices.",
		}),
		devices: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "vanity_devices",
			Help: "Number of devices participating in the search.",
		}),
	}
	m.devices.Set(float64(deviceCount))
	return m
}

// Update refreshes the found/rate gauges from a reporter tick.
func (m *Metrics) Update(found int64, itersPerSecond float64) {
	m.found.Set(float64(found))
	m.itersPerS.Set(itersPerSecond)
}

// Serve starts the metrics HTTP server on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- m.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
