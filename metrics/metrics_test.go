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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xgfone/berth"
)

func TestCollector(t *testing.T) {
	c := NewCollector("")
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))

	finish := c.Begin()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Inflight))
	finish(berth.Succeeded)
	c.Begin()(berth.BadRequest)
	c.Begin()(berth.Succeeded)
	c.Reject()

	assert.Equal(t, 0.0, testutil.ToFloat64(c.Inflight))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Dispatches.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Dispatches.WithLabelValues("bad_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Rejected))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Latency, "berth_dispatch_seconds"))

	names := []string{
		"berth_dispatch_total",
		"berth_dispatch_seconds",
		"berth_loop_rejected_total",
		"berth_inflight_requests",
	}
	count, err := testutil.GatherAndCount(reg, names...)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Begin()(berth.Failed)
		c.Reject()
	})
}
