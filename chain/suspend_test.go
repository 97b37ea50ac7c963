package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execResult struct {
	subject []string
	err     error
}

// start runs Execute on its own goroutine and reports through a channel.
func start(exec *Executor[[]string], initial []string) <-chan execResult {
	results := make(chan execResult, 1)
	go func() {
		subject, err := exec.Execute(context.Background(), initial)
		results <- execResult{subject: subject, err: err}
	}()
	return results
}

func TestSuspendResume(t *testing.T) {
	t.Run("execute returns the post-resumption subject exactly once", func(t *testing.T) {
		handles := make(chan *Resumption[[]string], 1)
		wait := NewInterceptorFunc("wait", func(ctx context.Context, flow *Flow[[]string]) error {
			r := flow.Suspend("reply pending")
			handles <- r
			subject, err := r.Await(ctx)
			if err != nil {
				return err
			}
			flow.SetSubject(subject)
			return nil
		})
		exec := NewPipeline("suspending", wait, appendStep("tail", "t")).Executor(nil)

		results := start(exec, []string{"seed"})
		r := <-handles
		assert.Equal(t, "reply pending", r.Reason())

		require.NoError(t, r.Resume([]string{"resumed"}))
		got := <-results
		require.NoError(t, got.err)
		assert.Equal(t, []string{"resumed", "t"}, got.subject)

		// The engine must not silently accept a duplicate delivery.
		assert.ErrorIs(t, r.Resume([]string{"again"}), ErrAlreadyResumed)
		assert.ErrorIs(t, r.Fail(errors.New("late")), ErrAlreadyResumed)
	})

	t.Run("fail propagates through the standard failure path", func(t *testing.T) {
		cause := errors.New("upstream exploded")
		handles := make(chan *Resumption[[]string], 1)
		wait := NewInterceptorFunc("wait", func(ctx context.Context, flow *Flow[[]string]) error {
			r := flow.Suspend("doomed")
			handles <- r
			_, err := r.Await(ctx)
			return err
		})
		var after int
		tail := NewInterceptorFunc("tail", func(ctx context.Context, flow *Flow[[]string]) error {
			after++
			return nil
		})
		exec := NewPipeline("failing", wait, tail).Executor(nil)

		results := start(exec, nil)
		r := <-handles
		require.NoError(t, r.Fail(cause))

		got := <-results
		require.Error(t, got.err)
		assert.ErrorIs(t, got.err, cause)
		var ie *InterceptorError
		require.ErrorAs(t, got.err, &ie)
		assert.Equal(t, "wait", ie.Interceptor)
		assert.Zero(t, after)
		assert.Equal(t, StateFailed, exec.State())
	})

	t.Run("await honors context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		handles := make(chan *Resumption[[]string], 1)
		wait := NewInterceptorFunc("wait", func(ctx context.Context, flow *Flow[[]string]) error {
			r := flow.Suspend("cancellable")
			handles <- r
			_, err := r.Await(ctx)
			return err
		})
		exec := NewPipeline("cancelled", wait).Executor(nil)

		results := make(chan execResult, 1)
		go func() {
			subject, err := exec.Execute(ctx, nil)
			results <- execResult{subject: subject, err: err}
		}()

		r := <-handles
		require.Eventually(t, func() bool {
			return exec.State() == StateSuspended
		}, time.Second, time.Millisecond)
		cancel()

		got := <-results
		assert.ErrorIs(t, got.err, context.Canceled)

		// The abandoned suspension is spent; a late delivery is rejected.
		assert.ErrorIs(t, r.Resume(nil), ErrAlreadyResumed)
	})

	t.Run("resume before await is not lost", func(t *testing.T) {
		eager := NewInterceptorFunc("eager", func(ctx context.Context, flow *Flow[[]string]) error {
			r := flow.Suspend("pre-resolved")
			require.NoError(t, r.Resume([]string{"early"}))
			subject, err := r.Await(ctx)
			if err != nil {
				return err
			}
			flow.SetSubject(subject)
			return nil
		})

		out, err := NewPipeline("eager", eager).Executor(nil).Execute(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"early"}, out)
	})
}

func TestNestedSuspension(t *testing.T) {
	// An interceptor that drives its own suspend/resume cycle before calling
	// Proceed must still let the chain ahead suspend and complete, proving
	// the registry's stack discipline rather than a single-slot model.
	var log []string
	resumeNow := func(r *Resumption[[]string], subject []string) {
		go func() { _ = r.Resume(subject) }()
	}

	outer := NewInterceptorFunc("outer", func(ctx context.Context, flow *Flow[[]string]) error {
		sub := flow.Suspend("sub-work")
		resumeNow(sub, append(flow.Subject(), "sub"))
		subject, err := sub.Await(ctx)
		if err != nil {
			return err
		}
		flow.SetSubject(subject)
		log = append(log, "outer:sub-resumed")

		out, err := flow.Proceed(ctx)
		if err != nil {
			return err
		}
		log = append(log, "outer:proceeded")
		flow.SetSubject(append(out, "outer-done"))
		return nil
	})

	inner := NewInterceptorFunc("inner", func(ctx context.Context, flow *Flow[[]string]) error {
		r := flow.Suspend("inner-work")
		resumeNow(r, append(flow.Subject(), "inner"))
		subject, err := r.Await(ctx)
		if err != nil {
			return err
		}
		flow.SetSubject(subject)
		log = append(log, "inner:resumed")
		return nil
	})

	tail := appendStep("tail", "tail")

	out, err := NewPipeline("nested", outer, inner, tail).
		Executor(nil).Execute(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "inner", "tail", "outer-done"}, out)
	assert.Equal(t, []string{"outer:sub-resumed", "inner:resumed", "outer:proceeded"}, log)
}
