// Package lifecycle ties stream subscriptions to the mounted lifetime of a
// component.
//
// A Host is whatever UI framework owns the component: it promises to run an
// effect once per mount and the cleanup that effect returned once per unmount.
// Use makes exactly one Subscribe call when the effect runs and one canceller
// call when the cleanup runs.
//
// Example:
//
//	var scope lifecycle.Scope
//	lifecycle.UseFunc(&scope, sources.Pointer, cam.Pan)
//	scope.Mount()
//	defer scope.Unmount()
package lifecycle

import (
	"sync"

	"github.com/casualjim/shoal/stream"
)

// Host runs effect once per mount of a component and runs the Action it
// returns once per unmount.
type Host interface {
	UseEffect(effect func() stream.Action)
}

// Use subscribes h to s for every mounted interval of host.
func Use[T any](host Host, s stream.Stream[T], h stream.Handler[T]) {
	host.UseEffect(func() stream.Action {
		return s.Subscribe(h)
	})
}

// UseFunc is Use for a plain function handler.
func UseFunc[T any](host Host, s stream.Stream[T], fn func(T)) {
	Use(host, s, stream.HandlerFunc[T](fn))
}

var _ Host = (*Scope)(nil)

// Scope is a Host whose mount and unmount are driven by the caller.
//
// Effects registered while mounted run immediately. Cleanups run in reverse
// registration order on Unmount. The zero value is an unmounted scope.
type Scope struct {
	mu       sync.Mutex
	effects  []func() stream.Action
	cleanups []stream.Action
	mounted  bool
}

// UseEffect registers effect for every future mount, and runs it now when the
// scope is already mounted.
func (s *Scope) UseEffect(effect func() stream.Action) {
	if effect == nil {
		return
	}

	s.mu.Lock()
	s.effects = append(s.effects, effect)
	mounted := s.mounted
	s.mu.Unlock()

	if mounted {
		s.track(effect())
	}
}

// Mount runs every registered effect. Mounting a mounted scope does nothing.
func (s *Scope) Mount() {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	effects := make([]func() stream.Action, len(s.effects))
	copy(effects, s.effects)
	s.mu.Unlock()

	for _, effect := range effects {
		s.track(effect())
	}
}

// Unmount runs the cleanups of the current mount in reverse order.
// Unmounting an unmounted scope does nothing.
func (s *Scope) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Mounted reports whether the scope is currently mounted.
func (s *Scope) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

func (s *Scope) track(cleanup stream.Action) {
	if cleanup == nil {
		return
	}
	cleanup = stream.Once(cleanup)

	s.mu.Lock()
	if !s.mounted {
		// unmounted while the effect ran
		s.mu.Unlock()
		cleanup()
		return
	}
	s.cleanups = append(s.cleanups, cleanup)
	s.mu.Unlock()
}
