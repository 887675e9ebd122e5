// Package events defines the input events shoal accepts from outside the
// process and their JSON wire form.
//
// Design decisions:
//   - Tagged envelope: every event carries a "type" marker so a single subject
//     can multiplex pointer, viewport and surface events
//   - Stable identity: every event has a time-ordered id and a timestamp
//   - Efficient JSON: envelopes are assembled with sjson from pre-allocated type
//     markers and read back with gjson without a full decode
//
// Event hierarchy:
//   - Event: Base interface for all input events
//     ├── PointerMoved: relative pointer movement, drives camera panning
//     ├── ViewportResized: new viewport size
//     └── SurfaceAcquired: a render surface became available
//
// Example usage:
//
//	data, err := events.ToJSON(events.NewPointerMoved(3, -2, "mouse"))
//	if err != nil {
//	    return err
//	}
//
//	evt, err := events.FromJSON(data)
//	switch e := evt.(type) {
//	case events.PointerMoved:
//	    pan(e.Delta)
//	}
package events
