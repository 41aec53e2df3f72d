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
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const defaultCacheSize = 1024

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	Hits             uint64
	Misses           uint64
	Evictions        uint64
	Errors           uint64
	Entries          int
	TotalCompileTime time.Duration
}

// HitRate returns hits over total lookups, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

type cacheEntry struct {
	pattern *Pattern
	addedAt time.Time
}

// Cache memoizes a Compiler behind an LRU with optional TTL expiry.
//
// Entry keys mix the source string with the compiler's ContextKey, so a
// cache never serves a pattern compiled under different delimiters or
// registries. All methods are safe for concurrent use.
type Cache struct {
	compiler *Compiler
	ttl      time.Duration

	mu    sync.Mutex
	lru   *simplelru.LRU[uint64, *cacheEntry]
	stats Stats

	statsEnabled bool
	disabled     atomic.Int32
	metrics      *cacheMetrics
	diagnostics  DiagnosticHandler

	// now is swappable for TTL tests.
	now func() time.Time
}

// NewCache wraps a compiler in a compilation cache.
// Default capacity is 1024 entries with no TTL.
func NewCache(compiler *Compiler, opts ...CacheOption) (*Cache, error) {
	if compiler == nil {
		return nil, ErrNilCompiler
	}

	cfg := cacheConfig{
		maxSize:      defaultCacheSize,
		statsEnabled: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxSize <= 0 {
		return nil, ErrCacheSizeInvalid
	}
	if cfg.ttl < 0 {
		return nil, ErrCacheTTLInvalid
	}

	lru, err := simplelru.NewLRU[uint64, *cacheEntry](cfg.maxSize, nil)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		compiler:     compiler,
		ttl:          cfg.ttl,
		lru:          lru,
		statsEnabled: cfg.statsEnabled,
		diagnostics:  cfg.diagnostics,
		now:          time.Now,
	}
	if cfg.meterProvider != nil {
		c.metrics, err = newCacheMetrics(cfg.meterProvider)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Fingerprint returns the cache key for a source string under this
// cache's compiler configuration.
func (c *Cache) Fingerprint(src string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(src)
	var ctx [8]byte
	binary.BigEndian.PutUint64(ctx[:], c.compiler.ContextKey())
	_, _ = d.Write(ctx[:])

	return d.Sum64()
}

// Compile returns the cached pattern for src, compiling and storing it
// on a miss. Expired entries count as a miss plus an eviction. While the
// cache is disabled, Compile passes straight through to the compiler and
// touches neither the LRU nor the counters.
func (c *Cache) Compile(src string) (*Pattern, error) {
	if c.disabled.Load() > 0 {
		return c.compiler.Compile(src)
	}

	key := c.Fingerprint(src)

	c.mu.Lock()
	if entry, ok := c.lru.Get(key); ok {
		if c.ttl == 0 || c.now().Sub(entry.addedAt) < c.ttl {
			c.record(func(s *Stats) { s.Hits++ })
			c.mu.Unlock()
			c.metrics.hit()

			return entry.pattern, nil
		}
		c.lru.Remove(key)
		c.record(func(s *Stats) { s.Evictions++ })
		c.metrics.eviction()
		c.emitEviction(src, "ttl")
	}
	c.record(func(s *Stats) { s.Misses++ })
	c.mu.Unlock()
	c.metrics.miss()

	start := time.Now()
	p, err := c.compiler.Compile(src)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.record(func(s *Stats) { s.TotalCompileTime += elapsed })
	if err != nil {
		c.record(func(s *Stats) { s.Errors++ })
		c.mu.Unlock()
		c.metrics.error()
		c.metrics.compileDuration(elapsed)

		return nil, err
	}
	if evicted := c.lru.Add(key, &cacheEntry{pattern: p, addedAt: c.now()}); evicted {
		c.record(func(s *Stats) { s.Evictions++ })
		c.metrics.eviction()
		c.emitEviction(src, "capacity")
	}
	c.mu.Unlock()
	c.metrics.compileDuration(elapsed)

	return p, nil
}

// Get returns the cached pattern for src without compiling.
// The lookup is counted; an expired entry is evicted and reported as
// absent.
func (c *Cache) Get(src string) (*Pattern, bool) {
	key := c.Fingerprint(src)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		c.record(func(s *Stats) { s.Misses++ })
		c.metrics.miss()

		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.addedAt) >= c.ttl {
		c.lru.Remove(key)
		c.record(func(s *Stats) { s.Evictions++; s.Misses++ })
		c.metrics.eviction()
		c.metrics.miss()
		c.emitEviction(src, "ttl")

		return nil, false
	}
	c.record(func(s *Stats) { s.Hits++ })
	c.metrics.hit()

	return entry.pattern, true
}

// Put stores an already-compiled pattern under src, bypassing the
// compiler. Useful for sharing patterns across caches.
func (c *Cache) Put(src string, p *Pattern) error {
	if p == nil {
		return ErrNilPattern
	}

	key := c.Fingerprint(src)

	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.lru.Add(key, &cacheEntry{pattern: p, addedAt: c.now()}); evicted {
		c.record(func(s *Stats) { s.Evictions++ })
		c.metrics.eviction()
		c.emitEviction(src, "capacity")
	}

	return nil
}

// Invalidate drops the entry for src, reporting whether one existed.
// Explicit invalidation is not counted as an eviction.
func (c *Cache) Invalidate(src string) bool {
	key := c.Fingerprint(src)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Remove(key)
}

// InvalidateAll drops every entry. Counters other than Entries are
// unaffected.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
}

// Warmup compiles and caches every source ahead of traffic.
// All sources are attempted; the joined compile errors are returned.
func (c *Cache) Warmup(srcs ...string) error {
	var errs []error
	for _, src := range srcs {
		if _, err := c.Compile(src); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Disable turns the cache into a pass-through and returns a restore
// function. Calls nest: the cache stays disabled until every restore has
// run. Each restore is idempotent.
func (c *Cache) Disable() (restore func()) {
	c.disabled.Add(1)

	var once sync.Once

	return func() {
		once.Do(func() { c.disabled.Add(-1) })
	}
}

// Stats returns a snapshot of the counters. With accounting disabled via
// WithStats(false) all counters read zero; Entries is always live.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.lru.Len()

	return s
}

// ResetStats zeroes the counters without touching cached entries.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = Stats{}
}

// record applies a counter update under the already-held lock.
func (c *Cache) record(update func(*Stats)) {
	if c.statsEnabled {
		update(&c.stats)
	}
}

func (c *Cache) emitEviction(src, reason string) {
	emit(c.diagnostics, DiagCacheEvicted, "cache entry evicted", map[string]any{
		"pattern": src,
		"reason":  reason,
	})
}
