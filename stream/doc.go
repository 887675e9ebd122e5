// Package stream provides a minimal push-based stream primitive used to wire
// externally produced events (pointer movement, viewport resizes, render
// surfaces, ticks) into consumers that should not care how those events are
// produced.
//
// Design decisions:
//   - Synchronous: every Subscribe, Emit and cancel runs to completion on the
//     caller's stack. No goroutines, queues or buffers are involved in delivery.
//   - No replay: a Stream has no memory of values emitted before a subscription.
//   - Idempotent cancellation: every canceller returned by this package may be
//     invoked any number of times; only the first call has an effect.
//   - Re-entrancy: handlers may subscribe, cancel or emit from inside a delivery
//     without corrupting the subscriber set of the Registry that is emitting.
//
// Type hierarchy:
//   - Stream: "subscribe a handler, get back a canceller"
//     ├── Registry: the only type that stores subscribers; owns Emit
//     ├── Map: per-value projection of another Stream
//     └── Switch: forwards from the most recently announced inner Stream
//   - ForeignStream: the effect-tracked dual of Stream, converted with
//     FromForeign and ToForeign
//
// Example usage:
//
//	sizes := stream.NewRegistry[Vector](stream.WithName("viewport"))
//	halves := stream.Map(sizes, func(v Vector) Vector { return v.Scale(0.5) })
//
//	cancel := halves.Subscribe(stream.HandlerFunc[Vector](func(v Vector) {
//	    screen.Position = v
//	}))
//	defer cancel()
//
//	if err := sizes.Emit(Vector{X: 1280, Y: 720}); err != nil {
//	    // a handler panicked; all other handlers still ran
//	}
//
// Handler failures are isolated: a panicking handler does not stop the other
// handlers of the same emission. Each panic is recovered, logged and returned
// from Emit as a *PanicError joined with any others.
package stream
