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
	"time"

	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/pattern/registry"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithDelimiters sets the parameter delimiter pair the compiler recognizes.
// The default is '«' and '»'. Hosts whose patterns use ASCII angle brackets
// opt in explicitly; a compiler accepts exactly one pair, so the two
// conventions are never silently mixed.
//
// Example:
//
//	c := pattern.MustNew(pattern.WithDelimiters('<', '>'))
//	p, err := c.Compile("/users/<id:int>")
func WithDelimiters(open, close rune) Option {
	return func(c *Compiler) {
		c.open = open
		c.close = close
	}
}

// WithTypes replaces the type caster registry.
// The default registry carries the built-in types (see registry.NewTypes).
func WithTypes(t *registry.Types) Option {
	return func(c *Compiler) {
		if t != nil {
			c.types = t
		}
	}
}

// WithConstraints replaces the constraint validator registry.
func WithConstraints(r *registry.Constraints) Option {
	return func(c *Compiler) {
		if r != nil {
			c.constraints = r
		}
	}
}

// WithTransforms replaces the transform registry.
func WithTransforms(t *registry.Transforms) Option {
	return func(c *Compiler) {
		if t != nil {
			c.transforms = t
		}
	}
}

// WithFile attributes compiled patterns and their diagnostics to a source
// file name, for hosts that load route tables from configuration.
func WithFile(name string) Option {
	return func(c *Compiler) {
		c.file = name
	}
}

// WithSuggestions toggles repair suggestion generation on compile errors.
// Enabled by default; disable it on hot paths that compile untrusted
// input and discard the diagnostics anyway.
func WithSuggestions(enabled bool) Option {
	return func(c *Compiler) {
		c.suggest = enabled
	}
}

// WithDiagnostics sets a diagnostic handler for the compiler.
// Compile failures are reported through it in addition to being returned.
//
// Example:
//
//	handler := pattern.DiagnosticHandlerFunc(func(e pattern.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	c := pattern.MustNew(pattern.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(c *Compiler) {
		c.diagnostics = handler
	}
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatcherDiagnostics sets a diagnostic handler for the matcher.
// Ambiguity rejections are reported through it in addition to being
// returned from Add.
func WithMatcherDiagnostics(handler DiagnosticHandler) MatcherOption {
	return func(m *Matcher) {
		m.diagnostics = handler
	}
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	maxSize       int
	ttl           time.Duration
	statsEnabled  bool
	meterProvider metric.MeterProvider
	diagnostics   DiagnosticHandler
}

// WithMaxSize sets the maximum number of cached patterns.
// Default: 1024. Must be positive.
func WithMaxSize(n int) CacheOption {
	return func(c *cacheConfig) {
		c.maxSize = n
	}
}

// WithTTL sets the time-to-live for cache entries. Entries older than the
// TTL are evicted lazily on next access and counted as misses.
// Zero (the default) disables expiry.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.ttl = ttl
	}
}

// WithStats toggles hit/miss/eviction accounting. Enabled by default;
// disabling it turns Stats() into a snapshot of zeros while leaving cache
// behavior unchanged.
func WithStats(enabled bool) CacheOption {
	return func(c *cacheConfig) {
		c.statsEnabled = enabled
	}
}

// WithMeterProvider enables OpenTelemetry metrics for the cache.
// Instruments are created under the "rivaas.dev/pattern" meter:
//
//	pattern.cache.hits         counter
//	pattern.cache.misses       counter
//	pattern.cache.evictions    counter
//	pattern.cache.errors       counter
//	pattern.compile.duration   histogram (seconds)
//
// Exporter wiring is the host's concern; pass the provider from your
// metrics stack.
func WithMeterProvider(mp metric.MeterProvider) CacheOption {
	return func(c *cacheConfig) {
		c.meterProvider = mp
	}
}

// WithCacheDiagnostics sets a diagnostic handler for the cache.
// Evictions are reported through it.
func WithCacheDiagnostics(handler DiagnosticHandler) CacheOption {
	return func(c *cacheConfig) {
		c.diagnostics = handler
	}
}
