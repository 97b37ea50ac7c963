package interceptors

import (
	"context"
	"time"

	"github.com/glimte/chainflow/chain"
)

// Collector defines the interface for collecting execution metrics
type Collector interface {
	IncrementExecutionCount(pipeline string)
	RecordExecutionTime(pipeline string, duration time.Duration)
	IncrementFailureCount(pipeline string, reason string)
}

// MetricsInterceptor reports counts, durations and failures for the chain
// ahead of it.
type MetricsInterceptor[S any] struct {
	collector Collector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor[S any](collector Collector) *MetricsInterceptor[S] {
	return &MetricsInterceptor[S]{collector: collector}
}

// Intercept implements chain.Interceptor
func (i *MetricsInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	start := time.Now()
	pipeline := flow.Pipeline()

	i.collector.IncrementExecutionCount(pipeline)

	_, err := flow.Proceed(ctx)
	duration := time.Since(start)

	i.collector.RecordExecutionTime(pipeline, duration)

	if err != nil {
		i.collector.IncrementFailureCount(pipeline, "execution_error")
	}

	return err
}

// Name implements chain.Interceptor
func (i *MetricsInterceptor[S]) Name() string {
	return "MetricsInterceptor"
}
