// Package registry is a concurrent map from names to values.
package registry

import "github.com/alphadose/haxmap"

type Registry[T any] interface {
	// GetOrAdd returns the value stored under name, computing and storing it
	// when absent. The boolean reports whether the value was already there.
	GetOrAdd(name string, value func() T) (T, bool)
	Len() int
	// Range calls fn for every entry until fn returns false.
	Range(fn func(name string, value T) bool)
}

type registry[T any] struct {
	values *haxmap.Map[string, T]
}

func New[T any]() Registry[T] {
	return &registry[T]{
		values: haxmap.New[string, T](),
	}
}

func (r *registry[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	return r.values.GetOrCompute(name, valueFn)
}

func (r *registry[T]) Len() int {
	return int(r.values.Len())
}

func (r *registry[T]) Range(fn func(name string, value T) bool) {
	r.values.ForEach(fn)
}
