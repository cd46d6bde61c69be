package event

import (
	"sync"
	"sync/atomic"

	"github.com/coresampler/rtscript/pkg/logging"
)

// Pool hands out *Event values from a sync.Pool so the audio thread never
// allocates one per message, tracking hit/miss/high-water-mark diagnostics
// the same way the teacher's event pool does.
type Pool struct {
	pool sync.Pool

	totalAllocations uint64
	poolHits         uint64
	poolMisses       uint64
	highWaterMark    uint64
	currentAllocated uint64

	logger *logging.Logger
}

// NewPool creates an event pool with an empty backing sync.Pool.
func NewPool() *Pool {
	p := &Pool{}
	p.pool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &Event{}
	}
	return p
}

// Get returns a zeroed *Event from the pool, allocating only on a pool
// miss.
func (p *Pool) Get() *Event {
	e := p.pool.Get().(*Event)
	atomic.AddUint64(&p.poolHits, 1)
	current := atomic.AddUint64(&p.currentAllocated, 1)

	for {
		high := atomic.LoadUint64(&p.highWaterMark)
		if current <= high || atomic.CompareAndSwapUint64(&p.highWaterMark, high, current) {
			break
		}
	}
	return e
}

// Put clears e and returns it to the pool. e must not be referenced again
// by the caller afterward — events are treated as immutable once
// dispatched, and once returned to the pool they may be handed to an
// unrelated caller at any time.
func (p *Pool) Put(e *Event) {
	*e = Event{}
	p.pool.Put(e)
	atomic.AddUint64(&p.currentAllocated, ^uint64(0))
}

// Diagnostics is a snapshot of the pool's allocation counters.
type Diagnostics struct {
	TotalAllocations uint64
	PoolHits         uint64
	PoolMisses       uint64
	HighWaterMark    uint64
	CurrentAllocated uint64
}

// GetDiagnostics returns a snapshot of the pool's counters. Safe to call
// from a control thread while the audio thread is using the pool.
func (p *Pool) GetDiagnostics() Diagnostics {
	return Diagnostics{
		TotalAllocations: atomic.LoadUint64(&p.totalAllocations),
		PoolHits:         atomic.LoadUint64(&p.poolHits),
		PoolMisses:       atomic.LoadUint64(&p.poolMisses),
		HighWaterMark:    atomic.LoadUint64(&p.highWaterMark),
		CurrentAllocated: atomic.LoadUint64(&p.currentAllocated),
	}
}

// SetLogger attaches a logger used by LogDiagnostics.
func (p *Pool) SetLogger(logger *logging.Logger) {
	p.logger = logger
}

// LogDiagnostics emits a debug-level record summarizing pool usage, a
// no-op if no logger has been attached.
func (p *Pool) LogDiagnostics() {
	if p.logger == nil {
		return
	}
	d := p.GetDiagnostics()
	hitRate := float64(0)
	if d.TotalAllocations > 0 {
		hitRate = float64(d.PoolHits) / float64(d.TotalAllocations) * 100
	}
	p.logger.With("hitRatePct", hitRate).
		With("highWaterMark", int64(d.HighWaterMark)).
		With("current", int64(d.CurrentAllocated)).
		Debug("event pool diagnostics")
}
