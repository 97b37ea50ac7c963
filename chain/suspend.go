package chain

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// outcome is the value delivered through a resumption.
type outcome[S any] struct {
	subject S
	err     error
}

// Resumption is the explicit handle for one suspension point: "the rest of
// the work waiting on this step's result". It must be delivered exactly
// once via Resume or Fail; the second delivery fails with ErrAlreadyResumed.
type Resumption[S any] struct {
	exec   *Executor[S]
	reason string
	spent  atomic.Bool
	ch     chan outcome[S]
}

// Suspend registers a resumption point for the step currently executing and
// returns its handle. Hand the handle to whatever completes the external
// event, then park on Await. Await calls must mirror Suspend calls in LIFO
// order; a handle that is never awaited leaks its registry frame.
func (f *Flow[S]) Suspend(reason string) *Resumption[S] {
	r := &Resumption[S]{
		exec:   f.exec,
		reason: reason,
		ch:     make(chan outcome[S], 1),
	}
	idx := f.index - 1
	pc, _, _, _ := runtime.Caller(1)
	f.exec.reg.push(frameRecord{
		kind:   FrameSuspend,
		index:  idx,
		name:   f.nameAt(idx),
		reason: reason,
		pc:     pc,
	})
	f.exec.logger.Debug("execution suspending",
		"pipeline", f.exec.pipeline,
		"executor", f.exec.id,
		"interceptor", f.nameAt(idx),
		"reason", reason,
	)
	return r
}

// Reason returns the reason given at the suspension point.
func (r *Resumption[S]) Reason() string { return r.reason }

// Resume delivers the external event's result and lets the suspended step
// continue with it. It never blocks. The second delivery for the same
// suspension returns ErrAlreadyResumed.
func (r *Resumption[S]) Resume(subject S) error {
	if !r.spent.CompareAndSwap(false, true) {
		return ErrAlreadyResumed
	}
	r.ch <- outcome[S]{subject: subject}
	return nil
}

// Fail delivers a failure instead of a result; it propagates from the
// suspended step through the standard failure path. The second delivery for
// the same suspension returns ErrAlreadyResumed.
func (r *Resumption[S]) Fail(cause error) error {
	if cause == nil {
		cause = errors.New("chain: resumption failed without a cause")
	}
	if !r.spent.CompareAndSwap(false, true) {
		return ErrAlreadyResumed
	}
	r.ch <- outcome[S]{err: cause}
	return nil
}

// Await parks the execution until Resume or Fail delivers, or until ctx is
// done. Cancellation surfaces as an ordinary failure from the suspended
// step; a delivery arriving after cancellation reports ErrAlreadyResumed to
// its caller instead of being silently accepted.
func (r *Resumption[S]) Await(ctx context.Context) (S, error) {
	e := r.exec
	e.state.Store(int32(StateSuspended))
	defer func() {
		e.state.Store(int32(StateRunning))
		e.mustPop()
	}()

	select {
	case out := <-r.ch:
		return out.subject, out.err
	case <-ctx.Done():
		if !r.spent.CompareAndSwap(false, true) {
			// Lost the race against a delivery already in flight; take it.
			out := <-r.ch
			return out.subject, out.err
		}
		var zero S
		return zero, ctx.Err()
	}
}
