package chain

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
)

// Flow is the execution handle an interceptor receives. It carries the
// subject, the position in the chain, and the operations an interceptor may
// perform: Proceed, ProceedWith, Finish, Suspend, and subject and scope
// access. A Flow is owned by a single execution and must not be retained
// after Intercept returns.
type Flow[S any] struct {
	exec    *Executor[S]
	subject S
	index   int
}

// Subject returns the current subject value.
func (f *Flow[S]) Subject() S { return f.subject }

// SetSubject replaces the subject threaded through the remaining chain.
func (f *Flow[S]) SetSubject(subject S) { f.subject = subject }

// Scope returns the shared environment for this execution.
func (f *Flow[S]) Scope() *Scope { return f.exec.scope }

// ExecutorID returns the id of the executor driving this flow.
func (f *Flow[S]) ExecutorID() string { return f.exec.id }

// Pipeline returns the name of the pipeline being executed.
func (f *Flow[S]) Pipeline() string { return f.exec.pipeline }

// Finish moves the position past the end of the chain so no further
// interceptors run. Subsequent Proceed calls return the current subject
// immediately.
func (f *Flow[S]) Finish() {
	f.index = len(f.exec.interceptors)
}

// Proceed runs the remaining interceptors and returns the subject as it
// stands once the chain ahead has completed or finished early. When the
// position is already at the end it returns the current subject with no
// further work. While Proceed is pending, the caller is visible to Frames
// walkers as a waiting continuation.
func (f *Flow[S]) Proceed(ctx context.Context) (S, error) {
	if f.index >= len(f.exec.interceptors) {
		return f.subject, nil
	}
	caller := f.index - 1
	if caller < 0 {
		caller = 0
	}
	pc, _, _, _ := runtime.Caller(1)
	f.exec.reg.push(frameRecord{kind: FrameProceed, index: caller, name: f.nameAt(caller), pc: pc})
	defer f.exec.mustPop()
	return f.run(ctx)
}

// ProceedWith replaces the subject, then behaves as Proceed.
func (f *Flow[S]) ProceedWith(ctx context.Context, subject S) (S, error) {
	f.subject = subject
	return f.Proceed(ctx)
}

// run advances the position through the interceptor list iteratively, so a
// chain of interceptors that complete without wrapping Proceed costs no
// call-stack growth however long the list is. The position only moves
// forward within one pass; Finish jumps it to the end.
func (f *Flow[S]) run(ctx context.Context) (S, error) {
	for f.index < len(f.exec.interceptors) {
		i := f.index
		f.index++
		if err := f.invoke(ctx, i); err != nil {
			return f.subject, err
		}
	}
	return f.subject, nil
}

// invoke runs one interceptor, converting panics and raw errors into
// interceptor failures attributed to the step that raised them. A failure
// stops the loop; nothing after the failing interceptor ever runs.
func (f *Flow[S]) invoke(ctx context.Context, i int) (err error) {
	icp := f.exec.interceptors[i]
	defer func() {
		if r := recover(); r != nil {
			err = &InterceptorError{
				Interceptor: icp.Name(),
				Index:       i,
				Cause:       &PanicError{Value: r, Stack: debug.Stack()},
			}
		}
	}()
	if err := icp.Intercept(ctx, f); err != nil {
		var ie *InterceptorError
		if errors.As(err, &ie) {
			// already attributed by a nested invoke
			return err
		}
		return &InterceptorError{Interceptor: icp.Name(), Index: i, Cause: err}
	}
	return nil
}

func (f *Flow[S]) nameAt(i int) string {
	if i < 0 || i >= len(f.exec.interceptors) {
		return ""
	}
	return f.exec.interceptors[i].Name()
}
