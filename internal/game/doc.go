// Package game is the consumer side of the stream core: a small scene that
// follows a render surface, the viewport size and pointer movement, and is
// driven by tick and frame streams.
//
// A Game does nothing until the first Surface arrives. That surface
// initializes the scene state and starts listening to viewport sizes. Later
// surfaces only replace the one being drawn to.
//
// All stream callbacks are expected to arrive on one goroutine. Loop provides
// that goroutine and Dispatch moves values produced elsewhere onto it.
package game
