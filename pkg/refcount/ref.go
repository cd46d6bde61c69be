// Package refcount provides a wait-free, lock-free shared-reference
// primitive for crossing the audio/control thread boundary without
// blocking the real-time audio thread.
//
// It mirrors C++ std::shared_ptr semantics but guarantees a lock-free,
// wait-free retain/release path: no mutex is taken on retain or release.
// Cell construction allocates, so it is not real-time safe and must not
// happen inside the audio callback.
package refcount

import (
	"sync"
	"sync/atomic"
)

// cell is the heap-allocated control block shared by every Ref pointing at
// the same payload. Exactly one goroutine wins the race to delete it: the
// first to successfully flip zombie from false to true after observing the
// retain count drop to zero.
type cell[T any] struct {
	refs    int64 // atomic
	zombie  uint32 // atomic bool: 0 = alive, 1 = released
	payload T
}

func newCell[T any](v T) *cell[T] {
	return &cell[T]{refs: 1, payload: v}
}

func (c *cell[T]) retain() {
	atomic.AddInt64(&c.refs, 1)
}

// release decrements the retain count. If it observes the count reach zero
// it attempts the zombie CAS; only the winner finalizes the cell. Losers of
// the race (there can be at most one, since only one decrement can observe
// zero) simply return.
func (c *cell[T]) release(finalize func(T)) {
	if atomic.AddInt64(&c.refs, -1) != 0 {
		return
	}
	if atomic.CompareAndSwapUint32(&c.zombie, 0, 1) {
		if finalize != nil {
			var zero T
			finalize(c.payload)
			c.payload = zero
		}
	}
}

// Ref is a shared reference to a T. The zero value is a nil reference. Refs
// are not safe to dereference concurrently with a Release of the same Ref
// value (copy it first, as with any shared_ptr-alike).
//
// Exactly one Ref may ever be constructed directly from a given raw value
// via New; all others must be obtained through Retain on an existing Ref (a
// plain assignment copies without retaining; Release decrements). Violating this crashes or double-frees, by
// design — enforcing it generically would require a global synchronized
// registry of live pointers, which is not real-time safe.
type Ref[T any] struct {
	c *cell[T]
}

// New wraps v in a freshly allocated cell with a retain count of one. This
// allocates and must not be called from the audio thread's hot path.
func New[T any](v T) Ref[T] {
	return Ref[T]{c: newCell(v)}
}

// Nil reports whether r holds no payload.
func (r Ref[T]) Nil() bool { return r.c == nil }

// Get dereferences the reference. Calling it on a Nil Ref panics, same as a
// nil pointer dereference would.
func (r Ref[T]) Get() T {
	return r.c.payload
}

// Retain returns a new Ref sharing the same cell, atomically incrementing
// the retain count. This is the lock-free equivalent of a copy constructor.
func (r Ref[T]) Retain() Ref[T] {
	if r.c == nil {
		return r
	}
	r.c.retain()
	return Ref[T]{c: r.c}
}

// Release atomically decrements the retain count, finalizing the payload
// with onFinalize exactly once, and strictly after every Retain's matching
// Release, if this was the last reference. onFinalize may be nil.
func (r Ref[T]) Release(onFinalize func(T)) {
	if r.c == nil {
		return
	}
	r.c.release(onFinalize)
}

// RefCount returns the current retain count, for diagnostics only — it is
// stale the instant it is read in the presence of concurrent retains or
// releases, so it must not be used for control flow.
func (r Ref[T]) RefCount() int64 {
	if r.c == nil {
		return 0
	}
	return atomic.LoadInt64(&r.c.refs)
}

// View is a typed projection of a Ref[Base] down to a concrete subtype,
// replicating the C++ Ref<T,T_BASE> derived-view variant. Go has no
// built-in dynamic_cast; this models the same "absent if not actually a T"
// behavior with a type assertion performed on every access instead of once
// at construction, since the underlying interface value held in Base may
// be swapped out from under a long-lived View by a concurrent assignment.
type View[T any, Base any] struct {
	base Ref[Base]
	as   func(Base) (T, bool)
}

// NewView creates a projection of base that narrows to T via as on each
// access. as typically performs a type assertion against an interface
// payload, e.g. `func(b Base) (T, bool) { t, ok := any(b).(T); return t, ok }`.
func NewView[T any, Base any](base Ref[Base], as func(Base) (T, bool)) View[T, Base] {
	return View[T, Base]{base: base, as: as}
}

// Ok reports whether the held object can currently be narrowed to T.
func (v View[T, Base]) Ok() bool {
	if v.base.Nil() {
		return false
	}
	_, ok := v.as(v.base.Get())
	return ok
}

// Get performs the narrowing projection, returning the zero value of T and
// false if the held object is not actually a T (mirrors the C++ variant
// returning a null pointer from operator-> on a type mismatch, but without
// Go's ability to crash on nil-pointer use, callers must check ok).
func (v View[T, Base]) Get() (T, bool) {
	var zero T
	if v.base.Nil() {
		return zero, false
	}
	return v.as(v.base.Get())
}

// debugRegistry is the optional leak/double-init diagnostic side-structure.
// It is disabled by default (assertMode == 0). New and Release do not
// consult it: enabling it allocates the map and sets the flag, and no cell
// is ever recorded in it.
var (
	assertMode   uint32
	debugMu      sync.Mutex
	debugTracked map[uintptr]string
)

// EnableAssertMode sets the assert-mode flag and, when enabling, allocates
// the tracker map (keyed by cell address, guarded by debugMu). New and
// Release never read the flag or the map, so no cells are tracked and no
// mutex is taken on their path.
func EnableAssertMode(enabled bool) {
	if enabled {
		debugMu.Lock()
		if debugTracked == nil {
			debugTracked = make(map[uintptr]string)
		}
		debugMu.Unlock()
		atomic.StoreUint32(&assertMode, 1)
	} else {
		atomic.StoreUint32(&assertMode, 0)
	}
}

// AssertModeEnabled reports whether the leak tracker is currently active.
func AssertModeEnabled() bool {
	return atomic.LoadUint32(&assertMode) == 1
}
