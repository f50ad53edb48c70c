package buffer

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional set of counters a Manager increments inline.
// A nil *Metrics is safe to use: every method tolerates it, so tests
// and embedders that don't care about observability can skip wiring
// it up entirely.
type Metrics struct {
	Hits            prometheus.Counter
	Misses          prometheus.Counter
	Evictions       prometheus.Counter
	DirtyWritebacks prometheus.Counter
	BufferExceeded  prometheus.Counter
}

// NewMetrics builds a Metrics registered against reg under the given
// namespace, for embedders such as cmd/bufferctl that serve /metrics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_hits_total",
			Help: "Pages found already resident in the pool.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_misses_total",
			Help: "Pages that required a fresh frame allocation.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_evictions_total",
			Help: "Frames reused for a new page identity.",
		}),
		DirtyWritebacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_dirty_writebacks_total",
			Help: "Dirty frames flushed to their file.",
		}),
		BufferExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_exceeded_total",
			Help: "allocBuf calls that found every frame pinned.",
		}),
	}
	reg.MustRegister(m.Hits, m.Misses, m.Evictions, m.DirtyWritebacks, m.BufferExceeded)
	return m
}

func (m *Metrics) incHits() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) incMisses() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) incEvictions() {
	if m != nil {
		m.Evictions.Inc()
	}
}

func (m *Metrics) incDirtyWritebacks() {
	if m != nil {
		m.DirtyWritebacks.Inc()
	}
}

func (m *Metrics) incBufferExceeded() {
	if m != nil {
		m.BufferExceeded.Inc()
	}
}
