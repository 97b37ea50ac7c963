package interceptors

import (
	"context"

	"github.com/glimte/chainflow/chain"
)

// FinishEvaluator decides whether the chain should stop early at this point.
// It may return a replacement subject to deliver as the final result.
type FinishEvaluator[S any] interface {
	// ShouldFinish returns true when the rest of the chain should be
	// skipped, along with the subject to finish with.
	ShouldFinish(ctx context.Context, scope *chain.Scope, subject S) (bool, S, error)
}

// FinishEvaluatorFunc is a function adapter for FinishEvaluator
type FinishEvaluatorFunc[S any] func(ctx context.Context, scope *chain.Scope, subject S) (bool, S, error)

// ShouldFinish implements FinishEvaluator
func (f FinishEvaluatorFunc[S]) ShouldFinish(ctx context.Context, scope *chain.Scope, subject S) (bool, S, error) {
	return f(ctx, scope, subject)
}

// ShortCircuitInterceptor finishes the chain early when its evaluator says
// so, delivering the evaluator's subject as the final result. Typical uses
// are cache hits and duplicate suppression.
type ShortCircuitInterceptor[S any] struct {
	evaluator FinishEvaluator[S]
}

// NewShortCircuitInterceptor creates a new short-circuit interceptor
func NewShortCircuitInterceptor[S any](evaluator FinishEvaluator[S]) *ShortCircuitInterceptor[S] {
	return &ShortCircuitInterceptor[S]{evaluator: evaluator}
}

// Intercept implements chain.Interceptor
func (i *ShortCircuitInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	finish, subject, err := i.evaluator.ShouldFinish(ctx, flow.Scope(), flow.Subject())
	if err != nil {
		return err
	}

	if finish {
		flow.SetSubject(subject)
		flow.Finish()
	}

	return nil
}

// Name implements chain.Interceptor
func (i *ShortCircuitInterceptor[S]) Name() string {
	return "ShortCircuitInterceptor"
}
