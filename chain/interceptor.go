package chain

import "context"

// Interceptor is a single step in a pipeline. An interceptor may read and
// transform the subject, suspend awaiting an external event, finish the
// chain early, or fail.
//
// Returning nil without calling Proceed lets the execution loop advance to
// the next interceptor iteratively. Calling Proceed runs the rest of the
// chain inline, which lets an interceptor do work after every downstream
// interceptor has completed.
type Interceptor[S any] interface {
	// Intercept processes the current subject through the flow handle.
	Intercept(ctx context.Context, flow *Flow[S]) error

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc[S any] struct {
	name string
	fn   func(ctx context.Context, flow *Flow[S]) error
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc[S any](name string, fn func(ctx context.Context, flow *Flow[S]) error) *InterceptorFunc[S] {
	return &InterceptorFunc[S]{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc[S]) Intercept(ctx context.Context, flow *Flow[S]) error {
	return i.fn(ctx, flow)
}

// Name implements Interceptor
func (i *InterceptorFunc[S]) Name() string {
	return i.name
}
