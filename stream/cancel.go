package stream

import (
	"sync"
	"sync/atomic"
)

// Once wraps a so that only the first invocation runs it.
//
// Unlike sync.Once, a call that arrives while the first one is still running
// returns immediately instead of blocking, so a canceller that ends up calling
// itself through some other teardown does not deadlock.
func Once(a Action) Action {
	if a == nil {
		return func() {}
	}
	var done atomic.Bool
	return func() {
		if done.CompareAndSwap(false, true) {
			a()
		}
	}
}

// Group collects cancellers and runs them together.
//
// The zero value is ready to use.
type Group struct {
	mu       sync.Mutex
	actions  []Action
	disposed bool
}

// Add registers a canceller with the group. When the group is already
// disposed, a runs immediately.
func (g *Group) Add(a Action) {
	if a == nil {
		return
	}

	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		a()
		return
	}
	g.actions = append(g.actions, a)
	g.mu.Unlock()
}

// Len returns the number of cancellers waiting in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.actions)
}

// Dispose runs every registered canceller in registration order.
// Only the first call has an effect.
func (g *Group) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	actions := g.actions
	g.actions = nil
	g.mu.Unlock()

	for _, a := range actions {
		a()
	}
}

// Action returns Dispose as an Action.
func (g *Group) Action() Action {
	return g.Dispose
}
