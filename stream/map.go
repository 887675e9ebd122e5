package stream

// Map returns a Stream that delivers f(v) for every v delivered by s.
//
// Each subscription to the result makes exactly one subscription to s, and
// cancelling it cancels that subscription. f runs on the emitter's stack once
// per value per subscriber; nothing is buffered.
func Map[A, B any](s Stream[A], f func(A) B) Stream[B] {
	return StreamFunc[B](func(h Handler[B]) Action {
		return s.Subscribe(HandlerFunc[A](func(v A) {
			h.Handle(f(v))
		}))
	})
}

// Filter returns a Stream that only delivers the values of s for which keep
// returns true.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] {
	return StreamFunc[T](func(h Handler[T]) Action {
		return s.Subscribe(HandlerFunc[T](func(v T) {
			if keep(v) {
				h.Handle(v)
			}
		}))
	})
}
