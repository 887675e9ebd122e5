package broker

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/internal/metrics"
	"github.com/casualjim/shoal/internal/registry"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/pkg/stdx"
	"github.com/casualjim/shoal/stream"
	"github.com/fogfish/opts"
)

// Option configures a Hub.
type Option = opts.Option[Hub]

// WithLogger sets the logger handed to every source the Hub creates.
func WithLogger(logger *slog.Logger) Option {
	return opts.Type[Hub](func(h *Hub) error {
		if logger != nil {
			h.logger = logger
		}
		return nil
	})
}

// Hub owns a set of named sources. It is safe for concurrent use.
type Hub struct {
	sources registry.Registry[any]
	logger  *slog.Logger
}

// Local creates an empty Hub.
func Local(options ...Option) *Hub {
	h := &Hub{
		sources: registry.New[any](),
		logger:  slog.Default().With(slogx.LoggerName("broker")),
	}
	stdx.Must0(opts.Apply(h, options))
	return h
}

// Source returns the registry bound to name, creating it with element type T
// on first use.
func Source[T any](h *Hub, name string) (*stream.Registry[T], error) {
	entry, _ := h.sources.GetOrAdd(name, func() any {
		return stream.NewRegistry[T](stream.WithName(name), stream.WithLogger(h.logger))
	})

	reg, ok := entry.(*stream.Registry[T])
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %T", ErrTypeMismatch, name, entry)
	}
	return reg, nil
}

// MustSource is Source but panics on a type mismatch.
func MustSource[T any](h *Hub, name string) *stream.Registry[T] {
	return stdx.Must1(Source[T](h, name))
}

// Names returns the names of every source created so far, sorted.
func (h *Hub) Names() []string {
	names := make([]string, 0, h.sources.Len())
	h.sources.Range(func(name string, _ any) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// Len returns the number of sources in the Hub.
func (h *Hub) Len() int {
	return h.sources.Len()
}

// Route emits e on the well-known source that matches its type.
func Route(h *Hub, e events.Event) error {
	err := route(h, e)

	eventType := "unknown"
	if e != nil {
		eventType = e.Type()
	}
	if err != nil {
		metrics.TrackEvent(eventType, metrics.StatusFailed)
		return err
	}
	metrics.TrackEvent(eventType, metrics.StatusRouted)
	return nil
}

func route(h *Hub, e events.Event) error {
	switch evt := e.(type) {
	case events.PointerMoved:
		reg, err := Source[events.Vector](h, PointerDelta)
		if err != nil {
			return err
		}
		return reg.Emit(evt.Delta)
	case events.ViewportResized:
		reg, err := Source[events.Vector](h, ViewportSize)
		if err != nil {
			return err
		}
		return reg.Emit(evt.Size)
	case events.SurfaceAcquired:
		reg, err := Source[events.SurfaceAcquired](h, Surface)
		if err != nil {
			return err
		}
		return reg.Emit(evt)
	default:
		return fmt.Errorf("%w: %T", events.ErrUnknownEvent, e)
	}
}
