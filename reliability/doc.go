// Package reliability provides host-side retry around pipeline executions.
//
// The execution engine never retries internally: a failed execution delivers
// exactly one failure to its caller. Retry, when wanted, belongs to the host
// and wraps a fresh Execute call per attempt. This package packages that
// pattern:
//
//	policy := reliability.NewExponentialBackoff(50*time.Millisecond, time.Second, 2, 5)
//	out, err := reliability.ExecutePipeline(ctx, pipeline, scope, initial, policy)
//
// Each attempt runs on a fresh executor, so a failed attempt can never leak
// state into the next one.
package reliability
