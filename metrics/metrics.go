// Copyright 2026 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics holds the Prometheus instruments of the request dispatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xgfone/berth"
)

// Collector is the set of the dispatch instruments.
//
// All the methods are safe to be called on the nil Collector, which does nothing.
type Collector struct {
	Dispatches *prometheus.CounterVec
	Latency    prometheus.Histogram
	Rejected   prometheus.Counter
	Inflight   prometheus.Gauge
}

// NewCollector returns a new collector, the names of whose instruments
// are prefixed with namespace, which is "berth" if empty.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "berth"
	}

	return &Collector{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Cumulative number of the finished dispatches by outcome.",
			}, []string{"outcome"}),

		Latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_seconds",
				Help:      "Time from the dispatch is scheduled to the request is released.",
				Buckets:   prometheus.DefBuckets,
			}),

		Rejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_rejected_total",
				Help:      "Cumulative number of the dispatches refused by the event loops.",
			}),

		Inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "inflight_requests",
				Help:      "Number of the requests being dispatched.",
			}),
	}
}

// Register registers all the instruments into reg,
// which is prometheus.DefaultRegisterer if nil.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	for _, collector := range []prometheus.Collector{c.Dispatches, c.Latency, c.Rejected, c.Inflight} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is the same as Register, but panics if failing.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	if err := c.Register(reg); err != nil {
		panic(err)
	}
}

// Begin marks a request as in flight, and returns the function to finish it
// with the outcome of its dispatch.
func (c *Collector) Begin() (finish func(berth.Outcome)) {
	if c == nil {
		return func(berth.Outcome) {}
	}

	start := time.Now()
	c.Inflight.Inc()
	return func(outcome berth.Outcome) {
		c.Inflight.Dec()
		c.Latency.Observe(time.Since(start).Seconds())
		c.Dispatches.WithLabelValues(outcome.String()).Inc()
	}
}

// Reject records a dispatch refused by the event loop.
func (c *Collector) Reject() {
	if c != nil {
		c.Rejected.Inc()
	}
}
