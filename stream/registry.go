package stream

import (
	"errors"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/casualjim/shoal/pkg/uuidx"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var _ Stream[struct{}] = (*Registry[struct{}])(nil)

// Registry owns the subscriber set of one event source together with the
// Emit function that notifies it. It is the only type in this package that
// stores subscribers.
//
// A Registry is safe for concurrent use, but delivery is always synchronous:
// Emit invokes every handler on the calling goroutine before it returns.
type Registry[T any] struct {
	name   string
	logger *slog.Logger

	mu         sync.Mutex
	subs       *orderedmap.OrderedMap[string, *subscription[T]]
	byIdentity map[Handler[T]]*subscription[T]
}

type subscription[T any] struct {
	id       string
	handler  Handler[T]
	identity bool
	active   atomic.Bool
	cancel   Action
}

// NewRegistry creates a Registry with an empty subscriber set.
func NewRegistry[T any](options ...Option) *Registry[T] {
	o := newRegistryOptions(options)
	return &Registry[T]{
		name:       o.name,
		logger:     o.logger,
		subs:       orderedmap.New[string, *subscription[T]](),
		byIdentity: make(map[Handler[T]]*subscription[T]),
	}
}

// Create returns a new event source as a Stream and the function that pushes
// values onto it.
func Create[T any](options ...Option) (Stream[T], func(T) error) {
	r := NewRegistry[T](options...)
	return r, r.Emit
}

// Name returns the name the registry was created with.
func (r *Registry[T]) Name() string {
	return r.name
}

// Len returns the number of live registrations.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs.Len()
}

// Subscribe registers h and returns a canceller that removes exactly that
// registration.
//
// Handlers with pointer identity are registered at most once: subscribing the
// same pointer again returns the canceller of the existing registration.
func (r *Registry[T]) Subscribe(h Handler[T]) Action {
	if h == nil {
		return func() {}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	identity := hasIdentity(h)
	if identity {
		if sub, ok := r.byIdentity[h]; ok {
			return sub.cancel
		}
	}

	sub := &subscription[T]{
		id:       uuidx.NewString(),
		handler:  h,
		identity: identity,
	}
	sub.active.Store(true)
	sub.cancel = Once(func() { r.remove(sub) })

	r.subs.Set(sub.id, sub)
	if identity {
		r.byIdentity[h] = sub
	}
	return sub.cancel
}

func (r *Registry[T]) remove(sub *subscription[T]) {
	sub.active.Store(false)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs.Delete(sub.id)
	if sub.identity && r.byIdentity[sub.handler] == sub {
		delete(r.byIdentity, sub.handler)
	}
}

// Emit synchronously delivers v to every handler registered before the call.
//
// Handlers registered during the emission do not receive v; handlers cancelled
// during the emission are skipped from that point on. A panicking handler does
// not prevent the others from running: every recovered panic is returned as a
// *PanicError, joined with errors.Join.
func (r *Registry[T]) Emit(v T) error {
	var errs []error
	for _, sub := range r.snapshot() {
		if !sub.active.Load() {
			continue
		}
		if err := r.deliver(sub, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry[T]) snapshot() []*subscription[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := make([]*subscription[T], 0, r.subs.Len())
	for pair := r.subs.Oldest(); pair != nil; pair = pair.Next() {
		subs = append(subs, pair.Value)
	}
	return subs
}

func (r *Registry[T]) deliver(sub *subscription[T], v T) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("stream handler panicked",
				slog.String("stream", r.name),
				slog.String("subscription", sub.id),
				slog.Any("panic", rec),
			)
			err = &PanicError{
				Registry:     r.name,
				Subscription: sub.id,
				Value:        rec,
				Stack:        debug.Stack(),
			}
		}
	}()

	sub.handler.Handle(v)
	return nil
}

func hasIdentity(h any) bool {
	return reflect.ValueOf(h).Kind() == reflect.Pointer
}
