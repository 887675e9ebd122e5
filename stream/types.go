package stream

// Action is a deferred unit of work that takes no input and produces no value.
// Cancellers returned by Subscribe are Actions.
type Action func()

// Effect is a deferred computation producing a T when run.
type Effect[T any] func() T

// Handler receives the values pushed by a Stream.
type Handler[T any] interface {
	Handle(T)
}

// HandlerFunc adapts a plain function to a Handler.
//
// Function values are not comparable in Go, so a Registry treats every
// subscription of a HandlerFunc as distinct. Use Func when a handler must be
// recognised when it is subscribed again.
type HandlerFunc[T any] func(T)

// Handle calls f(v).
func (f HandlerFunc[T]) Handle(v T) {
	f(v)
}

// FuncHandler is a Handler with pointer identity.
type FuncHandler[T any] struct {
	fn func(T)
}

// Func wraps fn in a Handler with pointer identity. Subscribing the returned
// handler twice to the same Registry results in a single registration.
func Func[T any](fn func(T)) *FuncHandler[T] {
	return &FuncHandler[T]{fn: fn}
}

// Handle calls the wrapped function.
func (f *FuncHandler[T]) Handle(v T) {
	f.fn(v)
}

// Stream is a capability to subscribe a Handler and receive a canceller.
//
// After the canceller returns, the handler receives no further values.
// Invoking the canceller again is a no-op.
type Stream[T any] interface {
	Subscribe(Handler[T]) Action
}

// StreamFunc adapts a subscribe function to a Stream.
type StreamFunc[T any] func(Handler[T]) Action

// Subscribe calls f(h).
func (f StreamFunc[T]) Subscribe(h Handler[T]) Action {
	return f(h)
}

// Subscribe is a convenience that subscribes fn to s.
func Subscribe[T any](s Stream[T], fn func(T)) Action {
	return s.Subscribe(HandlerFunc[T](fn))
}

// Never returns a Stream that never emits. Its canceller does nothing.
func Never[T any]() Stream[T] {
	return StreamFunc[T](func(Handler[T]) Action {
		return func() {}
	})
}

// Just returns a Stream that synchronously delivers vals to every new
// subscriber during Subscribe, then stays silent.
func Just[T any](vals ...T) Stream[T] {
	return StreamFunc[T](func(h Handler[T]) Action {
		for _, v := range vals {
			h.Handle(v)
		}
		return func() {}
	})
}
