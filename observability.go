// Copyright 2025 The Rivaas Authors
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

package pattern

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const meterName = "rivaas.dev/pattern"

// cacheMetrics holds the OpenTelemetry instruments for one Cache.
// A nil *cacheMetrics is valid and records nothing, so call sites never
// branch on whether metrics are configured.
type cacheMetrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newCacheMetrics(mp metric.MeterProvider) (*cacheMetrics, error) {
	meter := mp.Meter(meterName)
	m := &cacheMetrics{}

	var err error
	if m.hits, err = meter.Int64Counter("pattern.cache.hits",
		metric.WithDescription("Pattern cache lookups served from the cache")); err != nil {
		return nil, err
	}
	if m.misses, err = meter.Int64Counter("pattern.cache.misses",
		metric.WithDescription("Pattern cache lookups that required a compile")); err != nil {
		return nil, err
	}
	if m.evictions, err = meter.Int64Counter("pattern.cache.evictions",
		metric.WithDescription("Pattern cache entries evicted by capacity or TTL")); err != nil {
		return nil, err
	}
	if m.errors, err = meter.Int64Counter("pattern.cache.errors",
		metric.WithDescription("Pattern compilations that failed")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("pattern.compile.duration",
		metric.WithDescription("Pattern compilation duration"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) hit() {
	if m == nil {
		return
	}
	m.hits.Add(context.Background(), 1)
}

func (m *cacheMetrics) miss() {
	if m == nil {
		return
	}
	m.misses.Add(context.Background(), 1)
}

func (m *cacheMetrics) eviction() {
	if m == nil {
		return
	}
	m.evictions.Add(context.Background(), 1)
}

func (m *cacheMetrics) error() {
	if m == nil {
		return
	}
	m.errors.Add(context.Background(), 1)
}

func (m *cacheMetrics) compileDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(context.Background(), d.Seconds())
}
