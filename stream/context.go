package stream

import "context"

// SubscribeContext subscribes h to s and cancels the subscription when ctx is
// done. The returned canceller ends the subscription early.
//
// When ctx is already done, no subscription is made.
func SubscribeContext[T any](ctx context.Context, s Stream[T], h Handler[T]) Action {
	if ctx.Err() != nil {
		return func() {}
	}

	cancel := Once(s.Subscribe(h))
	stop := context.AfterFunc(ctx, cancel)
	return func() {
		stop()
		cancel()
	}
}
