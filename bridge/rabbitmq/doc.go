// Package rabbitmq bridges suspended executions to remote workers over
// AMQP. It lets an interceptor hand work to another process and park until
// the worker's completion message arrives:
//
//	wait := chain.NewInterceptorFunc("remote-work", func(ctx context.Context, flow *chain.Flow[Doc]) error {
//		r := flow.Suspend("remote worker")
//		token := bridge.Register(r)
//		if err := requestWork(ctx, token, flow.Subject()); err != nil {
//			return err
//		}
//		doc, err := r.Await(ctx)
//		if err != nil {
//			return err
//		}
//		flow.SetSubject(doc)
//		return nil
//	})
//
// The bridge consumes a single completion queue for any number of pending
// suspensions, matched by correlation token. Completions for unknown or
// already completed tokens are logged and dropped; the engine's
// exactly-once delivery guarantee holds across redelivered messages.
package rabbitmq
