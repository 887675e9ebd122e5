package stream

import "fmt"

// PanicError reports a handler that panicked while a Registry was emitting.
type PanicError struct {
	// Registry is the name of the emitting registry.
	Registry string

	// Subscription identifies the registration whose handler panicked.
	Subscription string

	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack captured when the panic was recovered.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("stream %s: handler %s panicked: %v", e.Registry, e.Subscription, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
