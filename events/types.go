package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/casualjim/shoal/pkg/uuidx"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	TypePointer  = "pointer"
	TypeViewport = "viewport"
	TypeSurface  = "surface"
)

var (
	pointerJSON  = []byte(`{"type":"pointer"}`)
	viewportJSON = []byte(`{"type":"viewport"}`)
	surfaceJSON  = []byte(`{"type":"surface"}`)
)

// ErrUnknownEvent is returned by FromJSON for a type marker it does not know.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is an input event that can travel over the wire.
type Event interface {
	Type() string
	shoalEvent()
}

// Vector is a 2D quantity carried by an event (a pointer delta, a viewport size).
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerMoved reports how far the pointer moved since the previous event.
type PointerMoved struct {
	ID        uuid.UUID       `json:"id"`
	Delta     Vector          `json:"delta"`
	Source    string          `json:"source,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

// ViewportResized reports the new size of the viewport.
type ViewportResized struct {
	ID        uuid.UUID       `json:"id"`
	Size      Vector          `json:"size"`
	Source    string          `json:"source,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

// SurfaceAcquired reports that a render surface became available.
// A later SurfaceAcquired supersedes the earlier one.
type SurfaceAcquired struct {
	ID        uuid.UUID       `json:"id"`
	Surface   string          `json:"surface"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Source    string          `json:"source,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (PointerMoved) shoalEvent()    {}
func (ViewportResized) shoalEvent() {}
func (SurfaceAcquired) shoalEvent() {}

func (PointerMoved) Type() string    { return TypePointer }
func (ViewportResized) Type() string { return TypeViewport }
func (SurfaceAcquired) Type() string { return TypeSurface }

// NewPointerMoved creates a PointerMoved stamped with a fresh id and the current time.
func NewPointerMoved(dx, dy float64, source string) PointerMoved {
	return PointerMoved{ID: uuidx.New(), Delta: Vector{X: dx, Y: dy}, Source: source, Timestamp: now()}
}

// NewViewportResized creates a ViewportResized stamped with a fresh id and the current time.
func NewViewportResized(w, h float64, source string) ViewportResized {
	return ViewportResized{ID: uuidx.New(), Size: Vector{X: w, Y: h}, Source: source, Timestamp: now()}
}

// NewSurfaceAcquired creates a SurfaceAcquired stamped with a fresh id and the current time.
func NewSurfaceAcquired(surface string, w, h int, source string) SurfaceAcquired {
	return SurfaceAcquired{ID: uuidx.New(), Surface: surface, Width: w, Height: h, Source: source, Timestamp: now()}
}

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}

// ToJSON encodes an event together with its type marker.
func ToJSON(e Event) ([]byte, error) {
	if e == nil {
		return nil, errors.New("event is required")
	}
	return json.Marshal(e)
}

// FromJSON decodes an event, dispatching on its type marker.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch tpe := gjson.GetBytes(data, "type").String(); tpe {
	case TypePointer:
		var e PointerMoved
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case TypeViewport:
		var e ViewportResized
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	case TypeSurface:
		var e SurfaceAcquired
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, tpe)
	}
}

// MarshalJSON implements custom JSON marshaling for PointerMoved
func (p PointerMoved) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(pointerJSON, p.ID, p.Source, p.Timestamp)
	if err != nil {
		return nil, err
	}
	return setVector(result, "delta", p.Delta)
}

// UnmarshalJSON implements custom JSON unmarshaling for PointerMoved
func (p *PointerMoved) UnmarshalJSON(data []byte) error {
	if err := unmarshalHeader(data, TypePointer, &p.ID, &p.Source, &p.Timestamp); err != nil {
		return err
	}
	return getVector(data, "delta", &p.Delta)
}

// MarshalJSON implements custom JSON marshaling for ViewportResized
func (v ViewportResized) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(viewportJSON, v.ID, v.Source, v.Timestamp)
	if err != nil {
		return nil, err
	}
	return setVector(result, "size", v.Size)
}

// UnmarshalJSON implements custom JSON unmarshaling for ViewportResized
func (v *ViewportResized) UnmarshalJSON(data []byte) error {
	if err := unmarshalHeader(data, TypeViewport, &v.ID, &v.Source, &v.Timestamp); err != nil {
		return err
	}
	return getVector(data, "size", &v.Size)
}

// MarshalJSON implements custom JSON marshaling for SurfaceAcquired
func (s SurfaceAcquired) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(surfaceJSON, s.ID, s.Source, s.Timestamp)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "surface", s.Surface)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "width", s.Width)
	if err != nil {
		return nil, err
	}

	return sjson.SetBytes(result, "height", s.Height)
}

// UnmarshalJSON implements custom JSON unmarshaling for SurfaceAcquired
func (s *SurfaceAcquired) UnmarshalJSON(data []byte) error {
	if err := unmarshalHeader(data, TypeSurface, &s.ID, &s.Source, &s.Timestamp); err != nil {
		return err
	}

	surface := gjson.GetBytes(data, "surface")
	if !surface.Exists() {
		return fmt.Errorf("missing required field 'surface'")
	}
	s.Surface = surface.String()

	width := gjson.GetBytes(data, "width")
	if !width.Exists() {
		return fmt.Errorf("missing required field 'width'")
	}
	s.Width = int(width.Int())

	height := gjson.GetBytes(data, "height")
	if !height.Exists() {
		return fmt.Errorf("missing required field 'height'")
	}
	s.Height = int(height.Int())

	return nil
}

func marshalHeader(template []byte, id uuid.UUID, source string, timestamp strfmt.DateTime) ([]byte, error) {
	result, err := sjson.SetBytes(template, "id", id.String())
	if err != nil {
		return nil, err
	}

	if source != "" {
		result, err = sjson.SetBytes(result, "source", source)
		if err != nil {
			return nil, err
		}
	}

	if !timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func unmarshalHeader(data []byte, tpe string, id *uuid.UUID, source *string, timestamp *strfmt.DateTime) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != tpe {
		return fmt.Errorf("missing or invalid type, expected '%s'", tpe)
	}

	rawID := gjson.GetBytes(data, "id")
	if !rawID.Exists() {
		return fmt.Errorf("missing required field 'id'")
	}
	if err := id.UnmarshalText([]byte(rawID.String())); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	if src := gjson.GetBytes(data, "source"); src.Exists() {
		*source = src.String()
	}

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		if err := timestamp.UnmarshalText([]byte(ts.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	return nil
}

func setVector(result []byte, key string, v Vector) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return sjson.SetRawBytes(result, key, raw)
}

func getVector(data []byte, key string, v *Vector) error {
	raw := gjson.GetBytes(data, key)
	if !raw.Exists() {
		return fmt.Errorf("missing required field '%s'", key)
	}
	if err := json.Unmarshal([]byte(raw.Raw), v); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}
