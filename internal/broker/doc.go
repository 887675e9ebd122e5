// Package broker owns the named event sources of a running shoal process and
// bridges them to NATS and websocket clients.
//
// Design decisions:
//   - No globals: a Hub is constructed explicitly and handed to the consumers
//     that need it, so every source can be replaced in tests
//   - Typed by name: a name is bound to one element type the first time it is
//     requested; asking for it with another type is an error
//   - Transport at the edge: NATS subjects and websocket messages are turned
//     into streams of raw payloads, decoded into events, and routed into the
//     Hub's sources
//
// Hierarchy:
//   - Hub: named stream.Registry values (pointer, viewport, surface, tick, frame)
//     └── Source / MustSource: typed get-or-create access
//   - FromNATS: NATS subject → stream of payloads
//   - Decode: payloads → events (undecodable payloads are logged and dropped)
//   - Forward: events → NATS subject
//   - Route: events → the Hub's well-known sources
//   - WebSocketHandler: client messages → Decode → Route
//
// Example usage:
//
//	hub := broker.Local()
//	pointer := broker.MustSource[events.Vector](hub, broker.PointerDelta)
//
//	cancel := broker.Decode(broker.FromNATS(nc, "shoal.input")).Subscribe(
//	    stream.HandlerFunc[events.Event](func(e events.Event) {
//	        _ = broker.Route(hub, e)
//	    }),
//	)
//	defer cancel()
//
// NATS and websocket connections deliver on their own goroutines. Consumers that expect every emission on
// one goroutine should hand the values to their loop instead of routing them
// directly.
package broker
