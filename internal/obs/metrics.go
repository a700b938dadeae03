package obs

import (
	"sync/atomic"
	"time"
)

// RegistryMetrics collects lightweight counters of a source registry.
// A nil *RegistryMetrics is valid and records nothing.
type RegistryMetrics struct {
	hits        uint64
	misses      uint64
	synthesized uint64
	builtins    uint64
	trims       uint64
	evicted     uint64

	trimLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// RegistrySnapshot captures the current metrics values.
type RegistrySnapshot struct {
	Hits        uint64
	Misses      uint64
	Synthesized uint64
	Builtins    uint64
	Trims       uint64
	Evicted     uint64
	TrimLatency LatencySnapshot
}

// NewRegistryMetrics allocates a metrics container.
func NewRegistryMetrics() *RegistryMetrics {
	return &RegistryMetrics{}
}

// IncHit records a lookup served from the cache.
func (m *RegistryMetrics) IncHit() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.hits, 1)
}

// IncMiss records a lookup that was not cached.
func (m *RegistryMetrics) IncMiss() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.misses, 1)
}

// IncSynthesized records a transient source created by a lookup.
func (m *RegistryMetrics) IncSynthesized() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.synthesized, 1)
}

// IncBuiltin records a builtin registration.
func (m *RegistryMetrics) IncBuiltin() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.builtins, 1)
}

// ObserveTrim records one trim pass.
func (m *RegistryMetrics) ObserveTrim(evicted int, d time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.trims, 1)
	if evicted > 0 {
		atomic.AddUint64(&m.evicted, uint64(evicted))
	}
	m.trimLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *RegistryMetrics) Snapshot() RegistrySnapshot {
	if m == nil {
		return RegistrySnapshot{}
	}
	return RegistrySnapshot{
		Hits:        atomic.LoadUint64(&m.hits),
		Misses:      atomic.LoadUint64(&m.misses),
		Synthesized: atomic.LoadUint64(&m.synthesized),
		Builtins:    atomic.LoadUint64(&m.builtins),
		Trims:       atomic.LoadUint64(&m.trims),
		Evicted:     atomic.LoadUint64(&m.evicted),
		TrimLatency: m.trimLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
