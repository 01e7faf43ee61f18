package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider keeps measurements in memory. It is suitable for tests and for
// applications that poll Snapshot instead of exporting.
type BasicProvider struct {
	mu         sync.Mutex
	counters   map[string]*BasicCounter
	gauges     map[string]*BasicUpDownCounter
	histograms map[string]*BasicHistogram
	meta       map[string]InstrumentConfig
}

func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		gauges:     make(map[string]*BasicUpDownCounter),
		histograms: make(map[string]*BasicHistogram),
		meta:       make(map[string]InstrumentConfig),
	}
}

// getOrCreate looks name up in m, creating it with mk under the provider lock.
func getOrCreate[T any](p *BasicProvider, m map[string]*T, name string, opts []InstrumentOption, mk func() *T) *T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := m[name]; ok {
		return v
	}
	v := mk()
	m[name] = v
	p.meta[name] = applyOptions(opts)
	return v
}

func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return p.BasicCounter(name, opts...)
}

func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return p.BasicUpDownCounter(name, opts...)
}

func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return p.BasicHistogram(name, opts...)
}

// BasicCounter returns the concrete counter registered under name.
func (p *BasicProvider) BasicCounter(name string, opts ...InstrumentOption) *BasicCounter {
	return getOrCreate(p, p.counters, name, opts, func() *BasicCounter { return &BasicCounter{} })
}

// BasicUpDownCounter returns the concrete up/down counter registered under name.
func (p *BasicProvider) BasicUpDownCounter(name string, opts ...InstrumentOption) *BasicUpDownCounter {
	return getOrCreate(p, p.gauges, name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

// BasicHistogram returns the concrete histogram registered under name.
func (p *BasicProvider) BasicHistogram(name string, opts ...InstrumentOption) *BasicHistogram {
	return getOrCreate(p, p.histograms, name, opts, func() *BasicHistogram { return &BasicHistogram{} })
}

// Config returns the metadata the instrument was created with.
func (p *BasicProvider) Config(name string) (InstrumentConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.meta[name]
	return c, ok
}

// BasicCounter is a concurrency-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

func (c *BasicCounter) Value() int64 { return c.val.Load() }

// BasicUpDownCounter is a concurrency-safe up/down counter that remembers its peak.
type BasicUpDownCounter struct {
	mu   sync.Mutex
	val  int64
	peak int64
}

func (u *BasicUpDownCounter) Add(n int64) {
	u.mu.Lock()
	u.val += n
	if u.val > u.peak {
		u.peak = u.val
	}
	u.mu.Unlock()
}

func (u *BasicUpDownCounter) Value() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.val
}

// Peak returns the highest value reached.
func (u *BasicUpDownCounter) Peak() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.peak
}

// BasicHistogram tracks count, sum, min and max without buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

// HistSnapshot is a copy of a BasicHistogram's state.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or 0 when nothing was recorded.
func (s HistSnapshot) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap.Count == 0 || v < h.snap.Min {
		h.snap.Min = v
	}
	if h.snap.Count == 0 || v > h.snap.Max {
		h.snap.Max = v
	}
	h.snap.Count++
	h.snap.Sum += v
}

func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}
