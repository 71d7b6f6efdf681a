// Package metrics implements the endpoint-level request/cache metrics
// aggregator exposed by the /api/v1/metrics endpoints. It is independent of
// the Prometheus exposition; this aggregator backs the JSON API.
package metrics

import (
	"sync"
	"time"
)

const (
	// GlobalWindowCapacity bounds the global rolling latency window.
	GlobalWindowCapacity = 1000
	// EndpointWindowCapacity bounds each per-endpoint rolling latency window.
	EndpointWindowCapacity = 100
)

// ring is a fixed-capacity FIFO of latency samples. The oldest sample is
// evicted on overflow.
type ring struct {
	values []float64
	head   int
	size   int
}

func newRing(capacity int) *ring {
	return &ring{values: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	if r.size < len(r.values) {
		r.values[(r.head+r.size)%len(r.values)] = v
		r.size++
		return
	}
	r.values[r.head] = v
	r.head = (r.head + 1) % len(r.values)
}

// snapshot returns the retained samples, oldest first.
func (r *ring) snapshot() []float64 {
	out := make([]float64, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.values[(r.head+i)%len(r.values)]
	}
	return out
}

func (r *ring) average() float64 {
	if r.size == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < r.size; i++ {
		sum += r.values[(r.head+i)%len(r.values)]
	}
	return sum / float64(r.size)
}

type counters struct {
	cacheSuccessCount int64
	cacheFailureCount int64
	successCount      int64
	failureCount      int64
	timesMs           *ring
	lastUsed          time.Time
}

// Snapshot is the derived, read-only view of one counter set. Ratios are 0,
// never NaN, when their denominator is 0.
type Snapshot struct {
	RequestCount      int64      `json:"requestCount"`
	SuccessCount      int64      `json:"successCount"`
	FailureCount      int64      `json:"failureCount"`
	SuccessRatio      float64    `json:"successRatio"`
	FailureRatio      float64    `json:"failureRatio"`
	CacheRequestCount int64      `json:"cacheRequestCount"`
	CacheSuccessCount int64      `json:"cacheSuccessCount"`
	CacheFailureCount int64      `json:"cacheFailureCount"`
	CacheSuccessRatio float64    `json:"cacheSuccessRatio"`
	CacheFailureRatio float64    `json:"cacheFailureRatio"`
	AvgTimeMs         float64    `json:"avgTimeMs"`
	WindowSize        int        `json:"windowSize"`
	TimesMs           []float64  `json:"timesMs"`
	LastUsedTs        *time.Time `json:"lastUsedTs,omitempty"`
}

// Aggregator records per-request outcome/latency and cache hit/miss, both
// globally and per logical endpoint key ("METHOD:path", query stripped).
// It is safe for concurrent use; construct it explicitly and inject it into
// the request path rather than holding a package global.
type Aggregator struct {
	mu        sync.Mutex
	global    *counters
	endpoints map[string]*counters
	order     []string // endpoint keys in first-seen order
}

// New returns an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		global:    &counters{timesMs: newRing(GlobalWindowCapacity)},
		endpoints: make(map[string]*counters),
	}
}

// getOrCreate lazily initializes the per-endpoint entry. Callers must hold mu.
func (a *Aggregator) getOrCreate(key string) *counters {
	if c, ok := a.endpoints[key]; ok {
		return c
	}
	c := &counters{timesMs: newRing(EndpointWindowCapacity)}
	a.endpoints[key] = c
	a.order = append(a.order, key)
	return c
}

// RecordRequest increments global and per-endpoint success/failure counters,
// appends the latency sample to both rolling windows and refreshes the
// endpoint's last-used timestamp.
func (a *Aggregator) RecordRequest(key string, isSuccess bool, elapsedMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ep := a.getOrCreate(key)
	if isSuccess {
		a.global.successCount++
		ep.successCount++
	} else {
		a.global.failureCount++
		ep.failureCount++
	}
	a.global.timesMs.push(elapsedMs)
	ep.timesMs.push(elapsedMs)
	ep.lastUsed = time.Now().UTC()
}

// RecordCache increments global and per-endpoint cache hit/miss counters
// only. Latency and request counters are untouched. The hit/miss decision is
// the caller's; this aggregator is header-agnostic.
func (a *Aggregator) RecordCache(key string, isSuccess bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ep := a.getOrCreate(key)
	if isSuccess {
		a.global.cacheSuccessCount++
		ep.cacheSuccessCount++
	} else {
		a.global.cacheFailureCount++
		ep.cacheFailureCount++
	}
}

func snapshotOf(c *counters, includeLastUsed bool) Snapshot {
	s := Snapshot{
		RequestCount:      c.successCount + c.failureCount,
		SuccessCount:      c.successCount,
		FailureCount:      c.failureCount,
		CacheRequestCount: c.cacheSuccessCount + c.cacheFailureCount,
		CacheSuccessCount: c.cacheSuccessCount,
		CacheFailureCount: c.cacheFailureCount,
		AvgTimeMs:         c.timesMs.average(),
		WindowSize:        c.timesMs.size,
		TimesMs:           c.timesMs.snapshot(),
	}
	if s.RequestCount > 0 {
		s.SuccessRatio = float64(s.SuccessCount) / float64(s.RequestCount)
		s.FailureRatio = float64(s.FailureCount) / float64(s.RequestCount)
	}
	if s.CacheRequestCount > 0 {
		s.CacheSuccessRatio = float64(s.CacheSuccessCount) / float64(s.CacheRequestCount)
		s.CacheFailureRatio = float64(s.CacheFailureCount) / float64(s.CacheRequestCount)
	}
	if includeLastUsed && !c.lastUsed.IsZero() {
		ts := c.lastUsed
		s.LastUsedTs = &ts
	}
	return s
}

// CalculateGlobalMetrics computes the derived global snapshot.
func (a *Aggregator) CalculateGlobalMetrics() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshotOf(a.global, false)
}

// CalculateEndpointMetrics computes the derived snapshot for one endpoint
// key. The second return value is false for a key that has never been
// recorded, which is distinct from a recorded key with all-zero counters.
func (a *Aggregator) CalculateEndpointMetrics(key string) (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.endpoints[key]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(c, true), true
}

// CalculateEndpointsMetrics computes snapshots for every known endpoint key.
func (a *Aggregator) CalculateEndpointsMetrics() map[string]Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]Snapshot, len(a.order))
	for _, key := range a.order {
		out[key] = snapshotOf(a.endpoints[key], true)
	}
	return out
}

// Reset zeroes all counters and drops every per-endpoint entry. Intended for
// test isolation.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.global = &counters{timesMs: newRing(GlobalWindowCapacity)}
	a.endpoints = make(map[string]*counters)
	a.order = nil
}
