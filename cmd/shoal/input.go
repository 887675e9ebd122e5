package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/internal/broker"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/fatih/color"
)

const (
	syntheticSource = "synthetic"
	resizeEvery     = 90
	surfaceEvery    = 150
)

// synthetic turns the tick counter into a scripted stream of input events.
// The events of a tick are built once and shared by every subscriber of the
// returned stream. The returned Action detaches it from ticks.
func synthetic(ticks stream.Stream[uint64]) (stream.Stream[events.Event], stream.Action) {
	s, emit := stream.Create[events.Event](stream.WithName(syntheticSource))
	script := stream.Switch(stream.Map(ticks, func(n uint64) stream.Stream[events.Event] {
		return stream.Just(scripted(n)...)
	}))
	stop := stream.Subscribe(script, func(e events.Event) {
		if err := emit(e); err != nil {
			slog.Error("failed to deliver synthetic event", slogx.Error(err), slog.String("type", e.Type()))
		}
	})
	return s, stop
}

// scripted returns the events for tick n: a surface and a viewport on the
// first tick, a pointer drift on every tick, a resize every resizeEvery ticks
// and a new surface every surfaceEvery ticks.
func scripted(n uint64) []events.Event {
	var evts []events.Event
	if n == 1 || n%surfaceEvery == 0 {
		evts = append(evts, events.NewSurfaceAcquired(fmt.Sprintf("canvas-%d", n/surfaceEvery+1), 1280, 720, syntheticSource))
	}
	if n == 1 || n%resizeEvery == 0 {
		grow := float64(n / resizeEvery * 16)
		evts = append(evts, events.NewViewportResized(1280+grow, 720+grow, syntheticSource))
	}

	angle := float64(n) / 10
	evts = append(evts, events.NewPointerMoved(math.Cos(angle), math.Sin(angle), syntheticSource))
	return evts
}

// route sends every event of s into the hub.
func route(hub *broker.Hub, s stream.Stream[events.Event]) stream.Action {
	return stream.Subscribe(s, func(e events.Event) {
		if err := broker.Route(hub, e); err != nil {
			slog.Error("failed to route event", slogx.Error(err), slog.String("type", e.Type()))
		}
	})
}

// trace prints every event of s to out.
func trace(out io.Writer, s stream.Stream[events.Event]) stream.Action {
	start := stream.ToForeign(s)(func(e events.Event) stream.Action {
		return func() {
			fmt.Fprintf(out, "%s %s\n", color.CyanString("%-8s", e.Type()), describe(e))
		}
	})
	return start()
}

func describe(e events.Event) string {
	switch evt := e.(type) {
	case events.PointerMoved:
		return fmt.Sprintf("dx=%s dy=%s", color.YellowString("%.3f", evt.Delta.X), color.YellowString("%.3f", evt.Delta.Y))
	case events.ViewportResized:
		return fmt.Sprintf("size=%s", color.GreenString("%.0fx%.0f", evt.Size.X, evt.Size.Y))
	case events.SurfaceAcquired:
		return fmt.Sprintf("surface=%s size=%s", color.MagentaString(evt.Surface), color.GreenString("%dx%d", evt.Width, evt.Height))
	default:
		return fmt.Sprintf("%v", e)
	}
}
