// Package metrics exports Prometheus counters/gauges/histograms for the
// engine-channel harness, extending the teacher's manual
// totalAllocations/poolHits/poolMisses/highWaterMark atomic-counter
// diagnostics pattern (pkg/event.Pool.Diagnostics) into real
// observability surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric the engine channel and VM update. The
// engine channel writes them from inside its own calls: the pool counters
// from ScheduleNoteMicroSec/ScheduleEventMicroSec, and the steps histogram
// and the gauges (via Sample) at the end of each ProcessFragment. They are
// therefore written on whichever thread drives the channel, the audio
// thread included; mutating a prometheus collector is not guaranteed
// real-time safe.
type Registry struct {
	NotePoolHits   prometheus.Counter
	NotePoolMisses prometheus.Counter

	EventPoolHits   prometheus.Counter
	EventPoolMisses prometheus.Counter

	SchedulerQueueDepth prometheus.Gauge

	VMStepsPerFragment prometheus.Histogram

	CallbacksRunning    prometheus.Gauge
	CallbacksQueued     prometheus.Gauge
	CallbacksTerminated prometheus.Gauge

	IngressDropped prometheus.Counter
}

// New constructs a Registry and registers every metric with reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		NotePoolHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtscript_note_pool_hits_total", Help: "Note pool Get calls satisfied without allocating.",
		}),
		NotePoolMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtscript_note_pool_misses_total", Help: "Note pool Get calls that allocated.",
		}),
		EventPoolHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtscript_event_pool_hits_total", Help: "Event pool Get calls satisfied without allocating.",
		}),
		EventPoolMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtscript_event_pool_misses_total", Help: "Event pool Get calls that allocated.",
		}),
		SchedulerQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rtscript_scheduler_queue_depth", Help: "Pending events in the time-ordered scheduler queue.",
		}),
		VMStepsPerFragment: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "rtscript_vm_steps_per_fragment", Help: "Queued events dispatched per ProcessFragment.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		CallbacksRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rtscript_callbacks_running", Help: "Script callbacks currently in RUNNING state.",
		}),
		CallbacksQueued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rtscript_callbacks_queued", Help: "Script callbacks currently in QUEUED state.",
		}),
		CallbacksTerminated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rtscript_callbacks_terminated", Help: "Script callbacks that have run to completion.",
		}),
		IngressDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtscript_ingress_dropped_total", Help: "Host events dropped by the ingress ring buffer on overflow.",
		}),
	}
	reg.MustRegister(
		r.NotePoolHits, r.NotePoolMisses,
		r.EventPoolHits, r.EventPoolMisses,
		r.SchedulerQueueDepth, r.VMStepsPerFragment,
		r.CallbacksRunning, r.CallbacksQueued, r.CallbacksTerminated,
		r.IngressDropped,
	)
	return r
}

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CallbackCounts is the snapshot Sample pulls from the engine channel on
// each control-thread tick.
type CallbackCounts struct {
	Running, Queued, Terminated int
}

// Sample updates the gauges from a point-in-time snapshot. The engine
// channel calls it at the end of every ProcessFragment, after releasing
// its lock.
func (r *Registry) Sample(queueDepth int, cb CallbackCounts) {
	r.SchedulerQueueDepth.Set(float64(queueDepth))
	r.CallbacksRunning.Set(float64(cb.Running))
	r.CallbacksQueued.Set(float64(cb.Queued))
	r.CallbacksTerminated.Set(float64(cb.Terminated))
}
