// Package thread provides a joinable/detachable real-time worker with
// scheduling priority and a cancelability-stack discipline, generalizing
// the state machine LinuxSampler's C++ Thread class uses for its audio and
// disk-streaming threads.
package thread

import (
	"context"
	"fmt"
	"sync"
)

// State is one of the four states a Worker moves through during its life.
type State int

const (
	// NotRunning is the initial state, and the state after a clean Stop.
	NotRunning State = iota
	// Running means the worker's Main function is currently executing.
	Running
	// PendingJoin means Main returned on its own without Stop having been
	// called yet; Detach, Stop or the next Start clears it.
	PendingJoin
	// Detached means the worker self-terminated and nobody will ever join
	// it; its goroutine has fully exited.
	Detached
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "NOT_RUNNING"
	case Running:
		return "RUNNING"
	case PendingJoin:
		return "PENDING_JOIN"
	case Detached:
		return "DETACHED"
	default:
		return "UNKNOWN"
	}
}

// Policy selects the OS scheduling class a Worker asks to run under.
type Policy int

const (
	// PolicyNormal is the default, non-realtime time-shared scheduler.
	PolicyNormal Policy = iota
	// PolicyFIFO requests a fixed-priority realtime scheduler (SCHED_FIFO
	// on Linux). See applyScheduling and SetRealtimeFIFO in rtos_linux.go.
	PolicyFIFO
)

// Options configure a Worker before it is started.
type Options struct {
	Name            string // for debugging: goroutine/thread label
	Policy          Policy
	PriorityOffset  int  // offset from the policy's minimum priority
	LockMemory      bool // pin pages to RAM (only meaningful with PolicyFIFO)
	MinStackKiB     int  // advisory; Go manages its own growable stacks
}

// Main is the function a Worker executes. It must honor ctx cancellation at
// reasonable intervals — cancellation is cooperative, never asynchronous.
type Main func(ctx context.Context)

// Worker is a cooperatively cancellable goroutine with explicit lifecycle
// state, mirroring LinuxSampler's Thread class state machine.
type Worker struct {
	mu      sync.Mutex
	state   State
	opts    Options
	cancel  context.CancelFunc
	done    chan struct{}
	joinErr error
}

// New creates a Worker in state NotRunning. It does not start a goroutine.
func New(opts Options) *Worker {
	return &Worker{state: NotRunning, opts: opts}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start launches main in a new goroutine and blocks until it has actually
// begun executing, matching StartThread()'s synchronous-start contract. If
// the worker self-terminated since the last Start without being joined or
// detached, it is implicitly detached first (mirroring the PENDING_JOIN
// auto-detach-on-restart behavior).
func (w *Worker) Start(main Main) error {
	w.mu.Lock()
	if w.state == Running {
		w.mu.Unlock()
		return nil
	}
	if w.state == PendingJoin {
		w.state = Detached
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	started := make(chan struct{})
	w.state = Running
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		applyScheduling(w.opts)
		close(started)
		main(ctx)
		w.mu.Lock()
		if w.state == Running {
			w.state = PendingJoin
		}
		w.mu.Unlock()
	}()

	<-started
	return nil
}

// Stop signals cancellation and blocks until the worker's Main function has
// returned, then transitions it back to NotRunning so it can be Started
// again. Calling Stop on a worker that is not running is a no-op.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.state != Running && w.state != PendingJoin {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	w.mu.Lock()
	w.state = NotRunning
	w.mu.Unlock()
}

// Detach marks a self-terminated (PendingJoin) worker as Detached, releasing
// any caller who might otherwise have waited to join it. It is a no-op
// unless the worker is currently PendingJoin.
func (w *Worker) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == PendingJoin {
		w.state = Detached
	}
}

// CancelStack is a stack of cancelability flags for one worker goroutine.
type CancelStack struct {
	mu     sync.Mutex
	frames []bool
}

// CancelScope is returned by PushCancelable; call Pop to restore the prior
// state. It exists so that callers cannot forget which state they are
// restoring to (the C++ version uses a bare push/pop pair on a thread-local
// list; this type makes the pairing a compile-time-visible obligation).
type CancelScope struct {
	stack *CancelStack
}

// NewCancelStack allocates a cancelability stack. Go has no first-class
// thread-local storage, so callers hold one CancelStack per Worker
// goroutine and thread it through explicitly via closure or context,
// instead of the C++ version's thread_local list.
func NewCancelStack() *CancelStack {
	return &CancelStack{}
}

// PushCancelable records the current cancelable flag and sets a new one.
// Discipline: push false before acquiring any mutex or reaching a
// cancellation point while holding one, and Pop after releasing it — this
// prevents an asynchronous cancel from interrupting a thread mid-critical
// section.
func (s *CancelStack) PushCancelable(cancelable bool) CancelScope {
	s.mu.Lock()
	s.frames = append(s.frames, cancelable)
	s.mu.Unlock()
	return CancelScope{stack: s}
}

// Pop restores the cancelability flag saved by the matching Push.
func (sc CancelScope) Pop() {
	s := sc.stack
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		panic("thread: Pop called without matching Push")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Cancelable reports the top of the cancelability stack, or true (the
// default cancelable state) if the stack is empty.
func (s *CancelStack) Cancelable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return true
	}
	return s.frames[len(s.frames)-1]
}

// WithGuardedSection runs fn with cancelability pushed to false for the
// duration, then pops it — the idiomatic way to wrap a mutex-guarded
// critical section per the cancelability discipline.
func WithGuardedSection(s *CancelStack, fn func()) {
	scope := s.PushCancelable(false)
	defer scope.Pop()
	fn()
}

func applyScheduling(opts Options) {
	if opts.Policy != PolicyFIFO {
		return
	}
	if err := SetRealtimeFIFO(opts.PriorityOffset); err != nil {
		// Falling back to the normal scheduler is not fatal: it only
		// costs us scheduling latency guarantees, not correctness.
		fmt.Printf("thread: %s: realtime FIFO scheduling unavailable: %v\n", opts.Name, err)
	}
	if opts.LockMemory {
		if err := LockMemory(); err != nil {
			fmt.Printf("thread: %s: memory lock unavailable: %v\n", opts.Name, err)
		}
	}
}
