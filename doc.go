/*
Package shoal is a small push-based reactive stream toolkit and the game loop
that consumes it.

The module is organised around one abstraction, a Stream: something a
handler can subscribe to, returning a canceller that ends the subscription.

  - stream: the core. Registries you emit into, Map, Filter, Switch, the
    bridge to effect-tracked foreign streams, and cancel utilities
  - lifecycle: binds a subscription to the mount and unmount of a host
  - events: the JSON envelope for input events that travel over NATS
  - internal/broker: named sources, and the NATS bridge feeding them
  - internal/game: a scene that follows surfaces, sizes and pointer movement,
    driven by a fixed rate loop

# Basic Usage

Create a source, derive a stream from it and subscribe:

	clicks, emit := stream.Create[camera.Vector]()
	xs := stream.Map(clicks, func(v camera.Vector) float64 { return v.X })

	cancel := stream.Subscribe(xs, func(x float64) {
		fmt.Println("x:", x)
	})
	defer cancel()

	_ = emit(camera.Vector{X: 3, Y: 4})

Follow only the most recent inner stream with Switch:

	current := stream.Switch(stream.Map(surfaces, func(s Surface) stream.Stream[Frame] {
		return s.Frames()
	}))

Delivery is synchronous. Emit returns once every handler has run, and a
handler that panics is reported in the returned error without stopping
delivery to the others.

The cmd/shoal binary wires everything together. It reads NATS_URL and the
SHOAL_* variables from the environment or a .env file.
*/
package shoal
