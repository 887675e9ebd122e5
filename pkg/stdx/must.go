// Package stdx holds small helpers the standard library lacks.
package stdx

// Must0 panics if err is not nil. Constructors use it for option errors,
// which are programming mistakes rather than runtime conditions.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v, or panics if err is not nil.
//
// Example usage:
//
//	reg := Must1(broker.Source[int](hub, "numbers"))
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
