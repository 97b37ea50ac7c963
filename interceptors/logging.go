package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/glimte/chainflow/chain"
)

// LoggingInterceptor logs advancement of the chain ahead of it with timing
// information. Suspension time counts towards the reported duration.
type LoggingInterceptor[S any] struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor[S any](logger *slog.Logger) *LoggingInterceptor[S] {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor[S]{logger: logger}
}

// Intercept implements chain.Interceptor
func (i *LoggingInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	start := time.Now()

	i.logger.Info("chain proceeding",
		"pipeline", flow.Pipeline(),
		"executor", flow.ExecutorID(),
	)

	_, err := flow.Proceed(ctx)
	duration := time.Since(start)

	if err != nil {
		i.logger.Error("chain failed",
			"pipeline", flow.Pipeline(),
			"executor", flow.ExecutorID(),
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Info("chain completed",
			"pipeline", flow.Pipeline(),
			"executor", flow.ExecutorID(),
			"duration", duration,
		)
	}

	return err
}

// Name implements chain.Interceptor
func (i *LoggingInterceptor[S]) Name() string {
	return "LoggingInterceptor"
}
