package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/casualjim/shoal/internal/camera"
	"github.com/casualjim/shoal/lifecycle"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/pkg/stdx"
	"github.com/casualjim/shoal/stream"
	"github.com/fogfish/opts"
)

// RotationStep is how far the camera turns on every rendered frame, in radians.
const RotationStep = 0.001

// Sources are the input streams a Game reacts to.
type Sources struct {
	Surfaces stream.Stream[Surface]
	Sizes    stream.Stream[camera.Vector]
	Pointer  stream.Stream[camera.Vector]
}

// State is the scene state. It exists once the first surface has arrived.
type State struct {
	Surface  Surface          `json:"-"`
	Viewport camera.Vector    `json:"viewport"`
	Camera   camera.Transform `json:"camera"`
	Screen   camera.Transform `json:"screen"`
	Tick     uint64           `json:"tick"`
	Frame    uint64           `json:"frame"`
}

// Option configures a Game.
type Option = opts.Option[Game]

// WithViewport sets the viewport size assumed until the first size arrives.
var WithViewport = opts.ForName[Game, camera.Vector]("viewport")

// WithLogger sets the logger of the Game. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return opts.Type[Game](func(g *Game) error {
		if logger != nil {
			g.logger = logger
		}
		return nil
	})
}

// Game follows its sources and renders to the latest surface.
type Game struct {
	sources  Sources
	viewport camera.Vector
	logger   *slog.Logger

	mu    sync.Mutex
	state *State

	scope     lifecycle.Scope
	cancelers stream.Group
}

// New creates a Game and subscribes it to sources. The subscriptions live in
// a lifecycle.Scope that is mounted here and unmounted by Dispose. Nil sources
// are skipped.
func New(sources Sources, options ...Option) *Game {
	g := &Game{
		sources:  sources,
		viewport: camera.Vector{X: 800, Y: 600},
		logger:   slog.Default().With(slogx.LoggerName("game")),
	}
	stdx.Must0(opts.Apply(g, options))

	if sources.Surfaces != nil {
		lifecycle.UseFunc(&g.scope, sources.Surfaces, g.onSurface)
	}
	if sources.Pointer != nil {
		lifecycle.UseFunc(&g.scope, sources.Pointer, g.onPointer)
	}
	g.scope.Mount()
	return g
}

func (g *Game) onSurface(s Surface) {
	if s == nil {
		return
	}

	g.mu.Lock()
	if g.state != nil {
		g.state.Surface = s
		g.mu.Unlock()
		g.logger.Debug("surface replaced", slog.String("surface", s.ID()))
		return
	}

	g.state = &State{
		Surface:  s,
		Viewport: g.viewport,
		Camera:   camera.Identity(),
		Screen:   camera.FlipY(camera.Identity()),
	}
	g.resize()
	g.mu.Unlock()
	g.logger.Info("surface acquired", slog.String("surface", s.ID()))

	if g.sources.Sizes != nil {
		lifecycle.UseFunc(&g.scope, g.sources.Sizes, g.onSize)
	}
}

func (g *Game) onSize(size camera.Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return
	}

	g.state.Viewport = size
	g.state.Screen.Position = camera.ScreenOrigin(size)
	g.resize()
}

func (g *Game) onPointer(delta camera.Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return
	}

	camera.Pan(&g.state.Camera, g.state.Screen, delta)
}

// resize must be called with mu held.
func (g *Game) resize() {
	g.state.Surface.Resize(int(g.state.Viewport.X), int(g.state.Viewport.Y))
}

// Update advances the simulation by one tick.
func (g *Game) Update() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return
	}
	g.state.Tick++
}

// Render draws one frame to the current surface.
func (g *Game) Render() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return
	}

	s := g.state.Surface
	s.Clear()
	s.ApplyTransform(g.state.Screen)
	s.ApplyTransform(g.state.Camera)
	s.ResetTransform()

	g.state.Camera.Rotation += RotationStep
	g.state.Frame++
}

// Snapshot returns a copy of the scene state, or false before the first
// surface has arrived.
func (g *Game) Snapshot() (State, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return State{}, false
	}
	return *g.state, true
}

// InitUpdater calls Update for every tick until ctx is done or the returned
// canceller runs.
func (g *Game) InitUpdater(ctx context.Context, ticks stream.Stream[uint64]) stream.Action {
	cancel := stream.SubscribeContext[uint64](ctx, ticks, stream.HandlerFunc[uint64](func(uint64) { g.Update() }))
	g.cancelers.Add(cancel)
	return cancel
}

// InitRenderer calls Render for every frame until ctx is done or the returned
// canceller runs.
func (g *Game) InitRenderer(ctx context.Context, frames stream.Stream[uint64]) stream.Action {
	cancel := stream.SubscribeContext[uint64](ctx, frames, stream.HandlerFunc[uint64](func(uint64) { g.Render() }))
	g.cancelers.Add(cancel)
	return cancel
}

// Run starts both the updater and the renderer and returns a canceller that
// stops the two.
func (g *Game) Run(ctx context.Context, ticks, frames stream.Stream[uint64]) stream.Action {
	var group stream.Group
	group.Add(g.InitUpdater(ctx, ticks))
	group.Add(g.InitRenderer(ctx, frames))
	return group.Action()
}

// Dispose cancels every subscription the Game holds. Later calls do nothing.
func (g *Game) Dispose() {
	g.scope.Unmount()
	g.cancelers.Dispose()
}

// Mounted reports whether the Game still follows its sources.
func (g *Game) Mounted() bool {
	return g.scope.Mounted()
}
