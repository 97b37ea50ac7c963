// Package interceptors provides built-in interceptors for common
// cross-cutting concerns, ready to register on a chain.Pipeline.
//
// Built-in interceptors:
//   - LoggingInterceptor: logs chain advancement with timing information
//   - MetricsInterceptor: reports counts, durations and failures to a Collector
//   - TracingInterceptor: wraps the chain ahead in an OpenTelemetry span
//   - TimeoutInterceptor: bounds the chain ahead, including suspension waits
//   - ShortCircuitInterceptor: finishes the chain early on a condition
//
// Wrapping interceptors (logging, metrics, tracing, timeout) call Proceed and
// observe the whole chain registered after them, so they are normally placed
// first:
//
//	p := chain.NewPipeline[Doc]("requests",
//		interceptors.NewTracingInterceptor[Doc](otel.GetTracerProvider()),
//		interceptors.NewLoggingInterceptor[Doc](logger),
//	)
//	p.Use(translate)
//
// Interceptors are executed in registration order; each wrapping interceptor
// nests around everything registered after it.
package interceptors
