package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records cache effectiveness signals. Implementations must be
// safe for concurrent use.
type Collector interface {
	Hit()
	Miss()
}

// NopCollector discards all signals
type NopCollector struct{}

func (NopCollector) Hit()  {}
func (NopCollector) Miss() {}

// Stats is a point-in-time snapshot of process-local counters
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Counters is a process-local, resettable collector. It is an
// observability aid scoped to this instance, not shared state.
type Counters struct {
	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewCounters creates an empty counter set
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Counters) Miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// Snapshot returns current counts
func (c *Counters) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// Reset zeroes the counters
func (c *Counters) Reset() {
	c.mu.Lock()
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
}

// PrometheusCollector exports hit/miss counts to a Prometheus registry
type PrometheusCollector struct {
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewPrometheusCollector registers cache counters on reg
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telecare_cache_hits_total",
			Help: "Number of cache-aside reads served from the store.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telecare_cache_misses_total",
			Help: "Number of cache-aside reads that fell through to the producer.",
		}),
	}
	reg.MustRegister(c.hits, c.misses)
	return c
}

func (c *PrometheusCollector) Hit()  { c.hits.Inc() }
func (c *PrometheusCollector) Miss() { c.misses.Inc() }

// MultiCollector fans out to several collectors
type MultiCollector []Collector

func (m MultiCollector) Hit() {
	for _, c := range m {
		c.Hit()
	}
}

func (m MultiCollector) Miss() {
	for _, c := range m {
		c.Miss()
	}
}
