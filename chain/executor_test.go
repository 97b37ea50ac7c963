package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendStep records a token on the subject and completes synchronously.
func appendStep(name, token string) *InterceptorFunc[[]string] {
	return NewInterceptorFunc(name, func(ctx context.Context, flow *Flow[[]string]) error {
		flow.SetSubject(append(flow.Subject(), token))
		return nil
	})
}

func TestExecute(t *testing.T) {
	t.Run("runs interceptors in registration order", func(t *testing.T) {
		p := NewPipeline("tokens",
			appendStep("first", "a"),
			appendStep("second", "b"),
			appendStep("third", "c"),
		)

		out, err := p.Executor(nil).Execute(context.Background(), []string{"seed"})

		require.NoError(t, err)
		assert.Equal(t, []string{"seed", "a", "b", "c"}, out)
	})

	t.Run("empty pipeline returns the initial subject", func(t *testing.T) {
		p := NewPipeline[[]string]("empty")

		out, err := p.Executor(nil).Execute(context.Background(), []string{"seed"})

		require.NoError(t, err)
		assert.Equal(t, []string{"seed"}, out)
	})

	t.Run("duplicate interceptors run once per registration", func(t *testing.T) {
		step := appendStep("dup", "x")
		p := NewPipeline("dups", step, step, step)

		out, err := p.Executor(nil).Execute(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"x", "x", "x"}, out)
	})

	t.Run("executor starts clean after a terminal state", func(t *testing.T) {
		p := NewPipeline("reuse", appendStep("one", "a"))
		exec := p.Executor(nil)

		first, err := exec.Execute(context.Background(), []string{"1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "a"}, first)
		assert.Equal(t, StateCompleted, exec.State())

		second, err := exec.Execute(context.Background(), []string{"2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "a"}, second)
	})

	t.Run("executor state starts idle", func(t *testing.T) {
		exec := NewPipeline[[]string]("idle").Executor(nil)
		assert.Equal(t, StateIdle, exec.State())
		assert.NotEmpty(t, exec.ID())
		assert.Equal(t, "idle", exec.Pipeline())
	})
}

func TestLongSynchronousChain(t *testing.T) {
	// A chain of interceptors that complete without wrapping Proceed must
	// be advanced iteratively, so even very long pipelines terminate with
	// the subject transformed once per step.
	const n = 100_000

	inc := NewInterceptorFunc("inc", func(ctx context.Context, flow *Flow[int]) error {
		flow.SetSubject(flow.Subject() + 1)
		return nil
	})
	p := NewPipeline[int]("count")
	for range n {
		p.Use(inc)
	}

	out, err := p.Executor(nil).Execute(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, n, out)
}

func TestFinish(t *testing.T) {
	t.Run("skips every later interceptor", func(t *testing.T) {
		invoked := make([]int, 4)
		counting := func(i int) *InterceptorFunc[[]string] {
			return NewInterceptorFunc(fmt.Sprintf("step%d", i), func(ctx context.Context, flow *Flow[[]string]) error {
				invoked[i]++
				flow.SetSubject(append(flow.Subject(), fmt.Sprintf("s%d", i)))
				if i == 1 {
					flow.Finish()
				}
				return nil
			})
		}
		p := NewPipeline("finish", counting(0), counting(1), counting(2), counting(3))

		out, err := p.Executor(nil).Execute(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"s0", "s1"}, out)
		assert.Equal(t, []int{1, 1, 0, 0}, invoked)
	})

	t.Run("proceed after finish is an idempotent short-circuit", func(t *testing.T) {
		var calls int
		early := NewInterceptorFunc("early", func(ctx context.Context, flow *Flow[[]string]) error {
			flow.Finish()
			first, err := flow.Proceed(ctx)
			require.NoError(t, err)
			second, err := flow.Proceed(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, second)
			return nil
		})
		never := NewInterceptorFunc("never", func(ctx context.Context, flow *Flow[[]string]) error {
			calls++
			return nil
		})

		out, err := NewPipeline("short", early, never).Executor(nil).Execute(context.Background(), []string{"kept"})

		require.NoError(t, err)
		assert.Equal(t, []string{"kept"}, out)
		assert.Zero(t, calls)
	})
}

func TestFailurePropagation(t *testing.T) {
	t.Run("failure stops the chain and wraps the cause", func(t *testing.T) {
		cause := errors.New("boom")
		ran := make([]int, 3)
		step := func(i int, fail bool) *InterceptorFunc[[]string] {
			return NewInterceptorFunc(fmt.Sprintf("step%d", i), func(ctx context.Context, flow *Flow[[]string]) error {
				ran[i]++
				if fail {
					return cause
				}
				return nil
			})
		}
		p := NewPipeline("failing", step(0, false), step(1, true), step(2, false))
		exec := p.Executor(nil)

		_, err := exec.Execute(context.Background(), nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		var ie *InterceptorError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "step1", ie.Interceptor)
		assert.Equal(t, 1, ie.Index)
		assert.Equal(t, []int{1, 1, 0}, ran)
		assert.Equal(t, StateFailed, exec.State())
	})

	t.Run("panic converts into an interceptor failure", func(t *testing.T) {
		p := NewPipeline("panicking",
			NewInterceptorFunc("bad", func(ctx context.Context, flow *Flow[[]string]) error {
				panic("unexpected")
			}),
			appendStep("after", "never"),
		)

		out, err := p.Executor(nil).Execute(context.Background(), nil)

		require.Error(t, err)
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "unexpected", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.Nil(t, out)
	})

	t.Run("nested failure keeps the original attribution", func(t *testing.T) {
		cause := errors.New("inner boom")
		outer := NewInterceptorFunc("outer", func(ctx context.Context, flow *Flow[[]string]) error {
			_, err := flow.Proceed(ctx)
			return err
		})
		inner := NewInterceptorFunc("inner", func(ctx context.Context, flow *Flow[[]string]) error {
			return cause
		})

		_, err := NewPipeline("nested", outer, inner).Executor(nil).Execute(context.Background(), nil)

		var ie *InterceptorError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "inner", ie.Interceptor)
		assert.ErrorIs(t, err, cause)
	})
}

func TestProceed(t *testing.T) {
	t.Run("wrapping interceptors nest around the chain ahead", func(t *testing.T) {
		var log []string
		wrap := func(name string) *InterceptorFunc[int] {
			return NewInterceptorFunc(name, func(ctx context.Context, flow *Flow[int]) error {
				log = append(log, "before:"+name)
				_, err := flow.Proceed(ctx)
				log = append(log, "after:"+name)
				return err
			})
		}
		leaf := NewInterceptorFunc("leaf", func(ctx context.Context, flow *Flow[int]) error {
			log = append(log, "leaf")
			return nil
		})

		_, err := NewPipeline("wrapping", wrap("outer"), wrap("inner"), leaf).
			Executor(nil).Execute(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"before:outer",
			"before:inner",
			"leaf",
			"after:inner",
			"after:outer",
		}, log)
	})

	t.Run("proceed with replaces the subject for the chain ahead", func(t *testing.T) {
		replace := NewInterceptorFunc("replace", func(ctx context.Context, flow *Flow[[]string]) error {
			out, err := flow.ProceedWith(ctx, []string{"replaced"})
			if err != nil {
				return err
			}
			flow.SetSubject(out)
			return nil
		})

		out, err := NewPipeline("replacing", replace, appendStep("tail", "t")).
			Executor(nil).Execute(context.Background(), []string{"original"})

		require.NoError(t, err)
		assert.Equal(t, []string{"replaced", "t"}, out)
	})
}

func TestAlreadyStarted(t *testing.T) {
	handles := make(chan *Resumption[string], 1)
	wait := NewInterceptorFunc("wait", func(ctx context.Context, flow *Flow[string]) error {
		r := flow.Suspend("external event")
		handles <- r
		subject, err := r.Await(ctx)
		if err != nil {
			return err
		}
		flow.SetSubject(subject)
		return nil
	})
	exec := NewPipeline("guarded", wait).Executor(nil)

	type outcome struct {
		subject string
		err     error
	}
	results := make(chan outcome, 1)
	go func() {
		subject, err := exec.Execute(context.Background(), "start")
		results <- outcome{subject: subject, err: err}
	}()

	r := <-handles
	require.Eventually(t, func() bool {
		return exec.State() == StateSuspended
	}, time.Second, time.Millisecond)

	// A second execute must be rejected without disturbing the pending one.
	_, err := exec.Execute(context.Background(), "again")
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, StateSuspended, exec.State())

	require.NoError(t, r.Resume("resumed"))
	got := <-results
	require.NoError(t, got.err)
	assert.Equal(t, "resumed", got.subject)
	assert.Equal(t, StateCompleted, exec.State())
}
