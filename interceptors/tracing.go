package interceptors

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glimte/chainflow/chain"
)

// TracingInterceptor wraps the chain ahead of it in an OpenTelemetry span.
// The span covers everything downstream, suspension waits included, and is
// handed to later interceptors through the context.
type TracingInterceptor[S any] struct {
	tracer trace.Tracer
}

// NewTracingInterceptor creates a new tracing interceptor
func NewTracingInterceptor[S any](provider trace.TracerProvider) *TracingInterceptor[S] {
	return &TracingInterceptor[S]{
		tracer: provider.Tracer("github.com/glimte/chainflow/interceptors"),
	}
}

// Intercept implements chain.Interceptor
func (i *TracingInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	ctx, span := i.tracer.Start(ctx, "chain.proceed",
		trace.WithAttributes(
			attribute.String("chain.pipeline", flow.Pipeline()),
			attribute.String("chain.executor", flow.ExecutorID()),
		),
	)
	defer span.End()

	_, err := flow.Proceed(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// Name implements chain.Interceptor
func (i *TracingInterceptor[S]) Name() string {
	return "TracingInterceptor"
}
