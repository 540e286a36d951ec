package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives cache lifecycle events. It exists alongside the exact,
// resettable Stats counters so operators can export events to their metrics
// system of choice without the cache depending on one.
type Recorder interface {
	Hit()
	Miss()
	StaleHit()
	Coalesced()
	BackgroundRefresh()
	RefreshError()
	Eviction()
}

// NoopRecorder ignores all events. It is the default so callers that do not
// care about metrics never pay for nil checks.
type NoopRecorder struct{}

func (NoopRecorder) Hit()               {}
func (NoopRecorder) Miss()              {}
func (NoopRecorder) StaleHit()          {}
func (NoopRecorder) Coalesced()         {}
func (NoopRecorder) BackgroundRefresh() {}
func (NoopRecorder) RefreshError()      {}
func (NoopRecorder) Eviction()          {}

type promRecorder struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	staleHits prometheus.Counter
	coalesced prometheus.Counter
	refreshes prometheus.Counter
	errors    prometheus.Counter
	evictions prometheus.Counter
}

// NewPrometheusRecorder returns a Recorder that exports cache events as
// counters registered with reg under the given namespace.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) Recorder {
	f := promauto.With(reg)
	return &promRecorder{
		hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of reads answered from a fresh entry.",
		}),
		misses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of reads that required a synchronous load.",
		}),
		staleHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "stale_hits_total",
			Help:      "Total number of reads answered from a stale entry.",
		}),
		coalesced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "coalesced_requests_total",
			Help:      "Total number of callers that attached to an in-flight load.",
		}),
		refreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "background_refreshes_total",
			Help:      "Total number of stale-triggered background refreshes.",
		}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "refresh_errors_total",
			Help:      "Total number of loader failures, foreground and background.",
		}),
		evictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Total number of entries evicted to make room.",
		}),
	}
}

func (r *promRecorder) Hit()               { r.hits.Inc() }
func (r *promRecorder) Miss()              { r.misses.Inc() }
func (r *promRecorder) StaleHit()          { r.staleHits.Inc() }
func (r *promRecorder) Coalesced()         { r.coalesced.Inc() }
func (r *promRecorder) BackgroundRefresh() { r.refreshes.Inc() }
func (r *promRecorder) RefreshError()      { r.errors.Inc() }
func (r *promRecorder) Eviction()          { r.evictions.Inc() }
