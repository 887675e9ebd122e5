package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/internal/broker"
	"github.com/casualjim/shoal/internal/camera"
	"github.com/casualjim/shoal/internal/game"
	"github.com/casualjim/shoal/pkg/natsx"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/k0kubun/pp/v3"
	"github.com/nats-io/nats.go"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

func setupLogging(level slog.Level) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("shoal failed", slogx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	if cfg.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.duration)
		defer cancel()
	}

	hub := broker.Local()
	ticks := broker.MustSource[uint64](hub, broker.Tick)
	frames := broker.MustSource[uint64](hub, broker.Frame)

	loop, err := game.NewLoop(ticks, frames, game.WithUPS(cfg.ups), game.WithFPS(cfg.fps))
	if err != nil {
		return err
	}

	var (
		cancelers stream.Group
		nc        *nats.Conn
	)
	defer func() {
		cancelers.Dispose()
		if nc != nil {
			drain(nc)
		}
	}()

	g := game.New(game.Sources{
		Surfaces: game.Forward(loop, stream.Map(
			broker.MustSource[events.SurfaceAcquired](hub, broker.Surface),
			func(evt events.SurfaceAcquired) game.Surface { return newLogSurface(evt) },
		)),
		Sizes:   game.Forward(loop, stream.Map(broker.MustSource[events.Vector](hub, broker.ViewportSize), toCamera)),
		Pointer: game.Forward(loop, stream.Map(broker.MustSource[events.Vector](hub, broker.PointerDelta), toCamera)),
	})
	cancelers.Add(g.Dispose)
	g.Run(ctx, ticks, frames)

	var inputs stream.Stream[events.Event] = stream.Never[events.Event]()
	if cfg.synthetic {
		var stop stream.Action
		inputs, stop = synthetic(ticks)
		cancelers.Add(stop)
	}

	if cfg.natsURL != "" {
		nc, err = natsx.Connect(cfg.natsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		slog.Info("nats bridge enabled", slog.String("url", cfg.natsURL), slog.String("subject", cfg.subject))

		cancelers.Add(broker.Forward(nc, cfg.subject, inputs))
		inputs = broker.Decode(broker.FromNATS(nc, cfg.subject))
	}

	if cfg.httpAddr != "" {
		shutdown, err := serveHTTP(cfg.httpAddr, hub)
		if err != nil {
			return fmt.Errorf("failed to start http server: %w", err)
		}
		cancelers.Add(shutdown)
	}

	cancelers.Add(route(hub, inputs))
	if cfg.trace {
		cancelers.Add(trace(out, inputs))
	}

	err = loop.Run(ctx)
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if cfg.dump {
		if state, ok := g.Snapshot(); ok {
			printer := pp.New()
			printer.SetOutput(out)
			printer.SetColoringEnabled(false)
			printer.Println(dumpOf(state))
		}
	}
	slog.Info("shoal stopped", slog.Any("sources", hub.Names()))
	return nil
}

type dump struct {
	Surface  string
	Viewport camera.Vector
	Camera   camera.Transform
	Screen   camera.Transform
	Tick     uint64
	Frame    uint64
}

func dumpOf(state game.State) dump {
	return dump{
		Surface:  state.Surface.ID(),
		Viewport: state.Viewport,
		Camera:   state.Camera,
		Screen:   state.Screen,
		Tick:     state.Tick,
		Frame:    state.Frame,
	}
}

func toCamera(v events.Vector) camera.Vector {
	return camera.Vector{X: v.X, Y: v.Y}
}

func drain(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		slog.Error("failed to drain nats connection", slogx.Error(err))
	}
}
