package interceptors

import (
	"context"
	"time"

	"github.com/glimte/chainflow/chain"
)

// TimeoutInterceptor bounds the chain ahead of it with a deadline. The
// deadline context reaches every later interceptor, so suspension waits
// parked on Resumption.Await give up when it expires and the timeout
// propagates as an ordinary failure.
type TimeoutInterceptor[S any] struct {
	timeout time.Duration
}

// NewTimeoutInterceptor creates a new timeout interceptor
func NewTimeoutInterceptor[S any](timeout time.Duration) *TimeoutInterceptor[S] {
	return &TimeoutInterceptor[S]{timeout: timeout}
}

// Intercept implements chain.Interceptor
func (i *TimeoutInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	_, err := flow.Proceed(ctx)
	return err
}

// Name implements chain.Interceptor
func (i *TimeoutInterceptor[S]) Name() string {
	return "TimeoutInterceptor"
}
