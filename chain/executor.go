package chain

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle state of an executor.
type State int32

const (
	// StateIdle means Execute has not been called yet.
	StateIdle State = iota
	// StateRunning means an interceptor is being invoked.
	StateRunning
	// StateSuspended means the execution is parked awaiting an external event.
	StateSuspended
	// StateCompleted means the last execution delivered a final subject.
	StateCompleted
	// StateFailed means the last execution delivered a failure.
	StateFailed
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Executor drives one execution of a pipeline over an immutable interceptor
// snapshot. Each executor is a freestanding owned object: its mutable state
// is touched by exactly one logical execution at a time, so many executors
// can run concurrently across goroutines without shared locks. The one
// exception is the diagnostic Frames walk, which tolerates racing with an
// in-progress resumption.
type Executor[S any] struct {
	id           string
	pipeline     string
	interceptors []Interceptor[S]
	scope        *Scope
	logger       *slog.Logger
	state        atomic.Int32
	reg          registry
}

// ExecutorOption configures an executor
type ExecutorOption[S any] func(*Executor[S])

// WithLogger sets the executor logger
func WithLogger[S any](logger *slog.Logger) ExecutorOption[S] {
	return func(e *Executor[S]) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Executor builds an executor over an immutable snapshot of the pipeline.
// The scope is borrowed for the execution's lifetime; pass nil for a fresh
// empty scope.
func (p *Pipeline[S]) Executor(scope *Scope, opts ...ExecutorOption[S]) *Executor[S] {
	if scope == nil {
		scope = NewScope()
	}
	e := &Executor[S]{
		id:           uuid.NewString(),
		pipeline:     p.name,
		interceptors: p.snapshot(),
		scope:        scope,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reg.reset()
	return e
}

// ID returns the unique executor id.
func (e *Executor[S]) ID() string { return e.id }

// Pipeline returns the name of the pipeline this executor was built from.
func (e *Executor[S]) Pipeline() string { return e.pipeline }

// Scope returns the shared environment borrowed by this executor.
func (e *Executor[S]) Scope() *Scope { return e.scope }

// State returns the current lifecycle state.
func (e *Executor[S]) State() State { return State(e.state.Load()) }

// Execute runs the pipeline against the initial subject and returns the
// final subject or the first failure; exactly one of the two occurs per
// call. The calling goroutine parks while the execution is suspended.
//
// Execute fails with ErrAlreadyStarted while a previous execution on this
// executor is still running or pending resumption, without touching that
// execution's state. After a terminal state the executor starts clean.
func (e *Executor[S]) Execute(ctx context.Context, initial S) (S, error) {
	if !e.begin() {
		var zero S
		return zero, ErrAlreadyStarted
	}

	pc, _, _, _ := runtime.Caller(1)
	e.reg.push(frameRecord{kind: FrameRoot, name: "execute", pc: pc})

	e.logger.Debug("execution started",
		"pipeline", e.pipeline,
		"executor", e.id,
		"interceptors", len(e.interceptors),
	)

	flow := &Flow[S]{exec: e, subject: initial}
	subject, err := flow.run(ctx)
	e.mustPop()

	if err != nil {
		e.state.Store(int32(StateFailed))
		e.logger.Error("execution failed",
			"pipeline", e.pipeline,
			"executor", e.id,
			"error", err,
		)
		var zero S
		return zero, err
	}

	e.state.Store(int32(StateCompleted))
	e.logger.Debug("execution completed",
		"pipeline", e.pipeline,
		"executor", e.id,
	)
	return subject, nil
}

// begin transitions to Running from idle or a terminal state and resets
// per-execution bookkeeping. It refuses while a previous execution is still
// running or pending resumption.
func (e *Executor[S]) begin() bool {
	for {
		s := State(e.state.Load())
		if s == StateRunning || s == StateSuspended {
			return false
		}
		if e.state.CompareAndSwap(int32(s), int32(StateRunning)) {
			e.reg.reset()
			return true
		}
	}
}

// mustPop removes the top continuation frame. An empty registry here is a
// bug in the engine itself, never in host code, so it fails loudly.
func (e *Executor[S]) mustPop() frameRecord {
	f, err := e.reg.pop()
	if err != nil {
		panic(err)
	}
	return f
}
