package game

import (
	"context"
	"testing"
	"time"

	"github.com/casualjim/shoal/internal/camera"
	"github.com/casualjim/shoal/stream"
	"github.com/casualjim/shoal/stream/streamtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	surfaces *streamtest.Spy[Surface]
	sizes    *streamtest.Spy[camera.Vector]
	pointer  *streamtest.Spy[camera.Vector]
}

func newFixture() *fixture {
	return &fixture{
		surfaces: streamtest.NewSpy[Surface]("surfaces", nil),
		sizes:    streamtest.NewSpy[camera.Vector]("sizes", nil),
		pointer:  streamtest.NewSpy[camera.Vector]("pointer", nil),
	}
}

func (f *fixture) sources() Sources {
	return Sources{Surfaces: f.surfaces, Sizes: f.sizes, Pointer: f.pointer}
}

func TestGame_WaitsForSurface(t *testing.T) {
	f := newFixture()
	g := New(f.sources())
	defer g.Dispose()

	assert.Equal(t, 1, f.surfaces.Subscribed())
	assert.Equal(t, 1, f.pointer.Subscribed())
	assert.Equal(t, 0, f.sizes.Subscribed(), "sizes are followed once a surface exists")

	require.NoError(t, f.pointer.Emit(camera.Vector{X: 1, Y: 1}))
	g.Update()
	g.Render()

	_, ok := g.Snapshot()
	assert.False(t, ok)
}

func TestGame_FirstSurfaceInitializesState(t *testing.T) {
	f := newFixture()
	g := New(f.sources(), WithViewport(camera.Vector{X: 320, Y: 200}))
	defer g.Dispose()

	s := newRecordingSurface("canvas-1")
	require.NoError(t, f.surfaces.Emit(s))

	state, ok := g.Snapshot()
	require.True(t, ok)
	assert.Same(t, s, state.Surface)
	assert.Equal(t, camera.Identity(), state.Camera)
	assert.Equal(t, camera.FlipY(camera.Identity()), state.Screen)
	assert.Zero(t, state.Tick)
	assert.Equal(t, [2]int{320, 200}, s.Size())
	assert.Equal(t, 1, f.sizes.Subscribed())

	require.NoError(t, f.sizes.Emit(camera.Vector{X: 1280, Y: 720}))
	state, _ = g.Snapshot()
	assert.Equal(t, camera.Vector{X: 640, Y: 360}, state.Screen.Position)
	assert.Equal(t, camera.Vector{X: 1280, Y: 720}, state.Viewport)
	assert.Equal(t, [2]int{1280, 720}, s.Size())
}

func TestGame_LaterSurfaceOnlySwaps(t *testing.T) {
	f := newFixture()
	g := New(f.sources())
	defer g.Dispose()

	first := newRecordingSurface("first")
	second := newRecordingSurface("second")
	require.NoError(t, f.surfaces.Emit(first))
	g.Update()
	require.NoError(t, f.surfaces.Emit(second))

	state, _ := g.Snapshot()
	assert.Same(t, second, state.Surface)
	assert.Equal(t, uint64(1), state.Tick, "state survives a surface swap")
	assert.Equal(t, 1, f.sizes.Subscribed(), "sizes are followed only once")
	assert.Empty(t, second.Calls(), "a swapped in surface is not resized")

	g.Render()
	assert.Equal(t, []string{"clear", "apply", "apply", "reset"}, second.Calls())
}

func TestGame_PointerPansCamera(t *testing.T) {
	f := newFixture()
	g := New(f.sources())
	defer g.Dispose()

	require.NoError(t, f.surfaces.Emit(newRecordingSurface("canvas")))
	require.NoError(t, f.pointer.Emit(camera.Vector{X: 3, Y: 4}))
	require.NoError(t, f.pointer.Emit(camera.Vector{X: 1, Y: 1}))

	state, _ := g.Snapshot()
	assert.Equal(t, camera.Vector{X: 4, Y: -5}, state.Camera.Position)
}

func TestGame_Render(t *testing.T) {
	f := newFixture()
	g := New(f.sources())
	defer g.Dispose()

	s := newRecordingSurface("canvas")
	require.NoError(t, f.surfaces.Emit(s))
	before, _ := g.Snapshot()

	g.Render()
	g.Render()

	after, _ := g.Snapshot()
	assert.InDelta(t, 2*RotationStep, after.Camera.Rotation, 1e-12)
	assert.Equal(t, uint64(2), after.Frame)

	applied := s.Applied()
	require.Len(t, applied, 2)
	assert.Equal(t, before.Screen, applied[0], "the screen transform is applied first")
	assert.InDelta(t, RotationStep, applied[1].Rotation, 1e-12)
}

func TestGame_Dispose(t *testing.T) {
	f := newFixture()
	g := New(f.sources())

	require.NoError(t, f.surfaces.Emit(newRecordingSurface("canvas")))
	g.Dispose()
	g.Dispose()

	assert.Equal(t, 1, f.surfaces.Cancelled())
	assert.Equal(t, 1, f.sizes.Cancelled())
	assert.Equal(t, 1, f.pointer.Cancelled())
	assert.Equal(t, 0, f.surfaces.Len())
	assert.Equal(t, 0, f.sizes.Len())
	assert.Equal(t, 0, f.pointer.Len())

	// a surface delivered after dispose is ignored
	require.NoError(t, f.surfaces.Emit(newRecordingSurface("late")))
	state, _ := g.Snapshot()
	assert.Equal(t, "canvas", state.Surface.ID())
}

func TestGame_DisposeUnmountsInReverseOrder(t *testing.T) {
	var journal streamtest.Journal
	surfaces := streamtest.NewSpy[Surface]("surfaces", &journal)
	sizes := streamtest.NewSpy[camera.Vector]("sizes", &journal)
	pointer := streamtest.NewSpy[camera.Vector]("pointer", &journal)

	g := New(Sources{Surfaces: surfaces, Sizes: sizes, Pointer: pointer})
	assert.True(t, g.Mounted())

	require.NoError(t, surfaces.Emit(newRecordingSurface("canvas")))
	require.Equal(t, 1, sizes.Subscribed())

	g.Dispose()
	assert.False(t, g.Mounted())
	assert.Equal(t, []string{"sizes", "pointer", "surfaces"}, journal.Entries())

	g.Dispose()
	assert.Len(t, journal.Entries(), 3)
}

func TestGame_NilSources(t *testing.T) {
	assert.NotPanics(t, func() {
		g := New(Sources{})
		g.Update()
		g.Render()
		g.Dispose()
	})
}

func TestGame_Run(t *testing.T) {
	f := newFixture()
	g := New(f.sources())
	defer g.Dispose()
	require.NoError(t, f.surfaces.Emit(newRecordingSurface("canvas")))

	ticks := stream.NewRegistry[uint64]()
	frames := stream.NewRegistry[uint64]()

	stop := g.Run(context.Background(), ticks, frames)
	require.NoError(t, ticks.Emit(1))
	require.NoError(t, ticks.Emit(2))
	require.NoError(t, frames.Emit(1))
	stop()
	require.NoError(t, ticks.Emit(3))
	require.NoError(t, frames.Emit(2))

	state, _ := g.Snapshot()
	assert.Equal(t, uint64(2), state.Tick)
	assert.Equal(t, uint64(1), state.Frame)
	assert.Equal(t, 0, ticks.Len())
	assert.Equal(t, 0, frames.Len())
}

func TestGame_RunStopsWithContext(t *testing.T) {
	g := New(Sources{})
	defer g.Dispose()

	ticks := stream.NewRegistry[uint64]()
	frames := stream.NewRegistry[uint64]()

	ctx, cancel := context.WithCancel(context.Background())
	g.Run(ctx, ticks, frames)
	assert.Equal(t, 1, ticks.Len())

	cancel()
	assert.Eventually(t, func() bool { return ticks.Len() == 0 && frames.Len() == 0 }, time.Second, 10*time.Millisecond)
}
