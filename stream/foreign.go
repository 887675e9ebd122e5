package stream

// ForeignHandler is the effect-tracked shape of a Handler: rather than acting on
// a value immediately, it returns the Action that performs the notification.
type ForeignHandler[T any] func(T) Action

// ForeignStream is the effect-tracked dual of Stream, used when exchanging
// streams with components that represent every side effect as an unexecuted
// Action. Running the Effect returned for a handler performs the subscription
// and yields the teardown Action.
//
// A ForeignStream must honour the same contract as a Stream: synchronous
// delivery, and a teardown that stops delivery. Neither FromForeign nor
// ToForeign validates this; a foreign stream that breaks it has undefined
// behavior at the boundary.
type ForeignStream[T any] func(ForeignHandler[T]) Effect[Action]

// FromForeign converts an effect-tracked stream into a Stream.
//
// Subscribing runs the foreign subscription immediately. Each notification
// Action the foreign side runs delivers the value straight to the handler, and
// the returned canceller runs the foreign teardown at most once.
func FromForeign[T any](foreign ForeignStream[T]) Stream[T] {
	return StreamFunc[T](func(h Handler[T]) Action {
		teardown := foreign(func(v T) Action {
			return func() { h.Handle(v) }
		})()
		return Once(teardown)
	})
}

// ToForeign converts a Stream into its effect-tracked form.
//
// The subscription is deferred until the returned Effect is run. Every value
// the Stream delivers is wrapped in the foreign handler's Action, which is
// executed right away so ordering and timing are unchanged.
func ToForeign[T any](s Stream[T]) ForeignStream[T] {
	return func(emit ForeignHandler[T]) Effect[Action] {
		return func() Action {
			return Once(s.Subscribe(HandlerFunc[T](func(v T) {
				emit(v)()
			})))
		}
	}
}
