// Package chain provides a cooperative execution engine for ordered chains
// of interceptors that transform a shared subject value.
//
// A Pipeline is an ordered, named list of interceptors. For each unit of
// work the host builds an Executor from the pipeline, seeds it with an
// initial subject and a Scope, and calls Execute. Interceptors run one at a
// time in list order; each may transform the subject, hand control onward,
// suspend awaiting an external event, stop the chain early via Finish, or
// fail, which aborts every remaining interceptor.
//
// The engine knows nothing about transports, requests, or any particular
// subject shape. It provides:
//   - Iterative advancement: interceptors that complete without wrapping
//     Proceed cost no call-stack growth however long the chain is
//   - Explicit suspension: Flow.Suspend returns a Resumption handle that an
//     external event completes exactly once via Resume or Fail
//   - Early termination: Finish skips the rest of the chain
//   - Deterministic failure propagation with wrapped causes
//   - A lazy, crash-proof diagnostic walk of pending continuations
//
// Example usage:
//
//	p := chain.NewPipeline[string]("greeting",
//		chain.NewInterceptorFunc("shout", func(ctx context.Context, flow *chain.Flow[string]) error {
//			flow.SetSubject(strings.ToUpper(flow.Subject()))
//			return nil
//		}),
//	)
//
//	exec := p.Executor(nil)
//	out, err := exec.Execute(ctx, "hello")
//
// Interceptors that need to wait for an external event suspend explicitly:
//
//	func (i *replyInterceptor) Intercept(ctx context.Context, flow *chain.Flow[Doc]) error {
//		r := flow.Suspend("awaiting reply")
//		i.requests <- request{resume: r}
//		doc, err := r.Await(ctx)
//		if err != nil {
//			return err
//		}
//		flow.SetSubject(doc)
//		return nil
//	}
//
// Each Executor instance is a freestanding owned object; many executions
// may run concurrently across goroutines as long as each executor is driven
// by one goroutine at a time. The diagnostic Frames walk is the one read
// path that tolerates concurrent mutation.
package chain
