package stream

import "sync"

// Switch flattens a stream of streams into a Stream that, at any instant,
// forwards only the values of the most recently announced inner stream.
//
// Subscribing to the result subscribes to outer. Every inner stream outer
// emits supersedes the previous one: the previous inner subscription is
// cancelled before the new one is made, and no value from a superseded inner
// reaches the handler once the switch has started. Cancelling the result
// cancels the active inner subscription first, then the outer one, each
// exactly once.
//
// An outer stream that emits while it is being subscribed is handled inline,
// before Subscribe returns.
func Switch[T any](outer Stream[Stream[T]]) Stream[T] {
	return StreamFunc[T](func(h Handler[T]) Action {
		sw := &switcher[T]{downstream: h}
		sw.setOuter(outer.Subscribe(HandlerFunc[Stream[T]](sw.next)))
		return sw.cancel
	})
}

type switcher[T any] struct {
	downstream Handler[T]

	mu     sync.Mutex
	gen    uint64
	inner  Action
	outer  Action
	closed bool
}

func (s *switcher[T]) setOuter(cancel Action) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.outer = cancel
	s.mu.Unlock()
}

func (s *switcher[T]) next(inner Stream[T]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	prev := s.inner
	s.inner = nil
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	if inner == nil {
		return
	}

	cancel := inner.Subscribe(HandlerFunc[T](func(v T) {
		s.forward(gen, v)
	}))

	s.mu.Lock()
	// a newer inner or a cancel may have arrived while subscribing
	if s.closed || s.gen != gen {
		s.mu.Unlock()
		cancel()
		return
	}
	s.inner = cancel
	s.mu.Unlock()
}

func (s *switcher[T]) forward(gen uint64, v T) {
	s.mu.Lock()
	live := !s.closed && s.gen == gen
	s.mu.Unlock()

	if live {
		s.downstream.Handle(v)
	}
}

func (s *switcher[T]) cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	inner, outer := s.inner, s.outer
	s.inner, s.outer = nil, nil
	s.mu.Unlock()

	if inner != nil {
		inner()
	}
	if outer != nil {
		outer()
	}
}
