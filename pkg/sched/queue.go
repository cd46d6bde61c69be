package sched

import (
	"container/heap"

	"github.com/coresampler/rtscript/pkg/event"
)

// entry pairs an event with a monotonic insertion sequence so that two
// events scheduled at the same microsecond are still ordered FIFO by
// insertion (strict-weak ordering, spec §4.6/§8).
type entry struct {
	ev  event.Event
	seq uint64
}

// innerHeap is the container/heap.Interface implementation backing
// Queue. No third-party priority-queue library appears anywhere in the
// retrieval pack, and this is a small, fixed-shape binary heap over a
// preallocated slice — exactly the shape container/heap exists for, so
// the standard library is used directly rather than introducing an
// indirection with no behavioral benefit.
type innerHeap []entry

func (h innerHeap) Len() int { return len(h) }
func (h innerHeap) Less(i, j int) bool {
	if h[i].ev.ScheduleTime != h[j].ev.ScheduleTime {
		return h[i].ev.ScheduleTime < h[j].ev.ScheduleTime
	}
	return h[i].seq < h[j].seq
}
func (h innerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *innerHeap) Push(x interface{}) {
	*h = append(*h, x.(entry))
}
func (h *innerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is a time-ordered binary min-heap of events, keyed by
// (ScheduleTime, insertion sequence). Capacity can be reserved up front
// so steady-state operation (once warmed up) does not reallocate.
type Queue struct {
	h   innerHeap
	seq uint64
}

// NewQueue returns an empty queue with capacity reserved for cap events.
func NewQueue(capacity int) *Queue {
	return &Queue{h: make(innerHeap, 0, capacity)}
}

// Push inserts ev, ordering it after any already-queued event with an
// equal ScheduleTime.
func (q *Queue) Push(ev event.Event) {
	heap.Push(&q.h, entry{ev: ev, seq: q.seq})
	q.seq++
}

// Pop removes and returns the earliest-scheduled event, or (zero, false)
// if the queue is empty.
func (q *Queue) Pop() (event.Event, bool) {
	if len(q.h) == 0 {
		return event.Event{}, false
	}
	e := heap.Pop(&q.h).(entry)
	return e.ev, true
}

// Peek returns the earliest-scheduled event without removing it.
func (q *Queue) Peek() (event.Event, bool) {
	if len(q.h) == 0 {
		return event.Event{}, false
	}
	return q.h[0].ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.h) }

// DrainDue pops every event with ScheduleTime <= nowUs, in order, calling
// fn for each. Stops at the first event scheduled in the future.
func (q *Queue) DrainDue(nowUs int64, fn func(event.Event)) {
	for {
		ev, ok := q.Peek()
		if !ok || ev.ScheduleTime > nowUs {
			return
		}
		q.Pop()
		fn(ev)
	}
}
