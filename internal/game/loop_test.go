package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/casualjim/shoal/stream"
	"github.com/casualjim/shoal/stream/streamtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(t *testing.T, options ...LoopOption) (*Loop, *stream.Registry[uint64], *stream.Registry[uint64]) {
	t.Helper()
	ticks := stream.NewRegistry[uint64](stream.WithName("tick"))
	frames := stream.NewRegistry[uint64](stream.WithName("frame"))
	l, err := NewLoop(ticks, frames, options...)
	require.NoError(t, err)
	return l, ticks, frames
}

// start runs l in the background and returns a function that stops it and
// waits for Run to return.
func start(t *testing.T, l *Loop) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("loop did not stop")
		}
	}
}

func TestNewLoop(t *testing.T) {
	ticks := stream.NewRegistry[uint64]()
	frames := stream.NewRegistry[uint64]()

	testCases := []struct {
		name    string
		ticks   *stream.Registry[uint64]
		frames  *stream.Registry[uint64]
		options []LoopOption
		wantErr string
	}{
		{name: "defaults", ticks: ticks, frames: frames},
		{name: "custom rates", ticks: ticks, frames: frames, options: []LoopOption{WithUPS(10), WithFPS(20)}},
		{name: "missing ticks", frames: frames, wantErr: "registries are required"},
		{name: "missing frames", ticks: ticks, wantErr: "registries are required"},
		{name: "zero ups", ticks: ticks, frames: frames, options: []LoopOption{WithUPS(0)}, wantErr: "ups must be between"},
		{name: "negative fps", ticks: ticks, frames: frames, options: []LoopOption{WithFPS(-1)}, wantErr: "fps must be between"},
		{name: "ups above max", ticks: ticks, frames: frames, options: []LoopOption{WithUPS(MaxRate + 1)}, wantErr: "ups must be between"},
		{name: "fps beyond ticker resolution", ticks: ticks, frames: frames, options: []LoopOption{WithFPS(2_000_000_000)}, wantErr: "fps must be between"},
		{name: "max rate", ticks: ticks, frames: frames, options: []LoopOption{WithUPS(MaxRate), WithFPS(MaxRate)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := NewLoop(tc.ticks, tc.frames, tc.options...)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, l.ups)
			assert.Positive(t, l.fps)
		})
	}
}

func TestLoop_EmitsTicksAndFrames(t *testing.T) {
	l, ticks, frames := newTestLoop(t, WithUPS(200), WithFPS(200))

	tickRec := streamtest.NewRecorder[uint64]()
	frameRec := streamtest.NewRecorder[uint64]()
	ticks.Subscribe(tickRec)
	frames.Subscribe(frameRec)

	stop := start(t, l)
	require.Eventually(t, func() bool { return tickRec.Len() >= 3 && frameRec.Len() >= 3 }, 2*time.Second, 5*time.Millisecond)
	stop()

	got := tickRec.Values()
	for i, n := range got {
		assert.Equal(t, uint64(i+1), n, "ticks count up from one")
	}
}

func TestLoop_Dispatch(t *testing.T) {
	l, ticks, _ := newTestLoop(t, WithUPS(1000))

	// handlers and dispatched functions never overlap
	var running, overlaps atomic.Int32
	enter := func() {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
	}
	ticks.Subscribe(stream.HandlerFunc[uint64](func(uint64) { enter() }))

	stop := start(t, l)
	var ran atomic.Int32
	for range 20 {
		require.NoError(t, l.Dispatch(func() {
			enter()
			ran.Add(1)
		}))
	}
	require.Eventually(t, func() bool { return ran.Load() == 20 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Zero(t, overlaps.Load())
	assert.ErrorIs(t, l.Dispatch(func() {}), ErrLoopStopped)
	assert.NoError(t, l.Dispatch(nil))
}

func TestLoop_RecoversDispatchedPanics(t *testing.T) {
	l, _, _ := newTestLoop(t)
	stop := start(t, l)
	defer stop()

	var after atomic.Bool
	require.NoError(t, l.Dispatch(func() { panic("boom") }))
	require.NoError(t, l.Dispatch(func() { after.Store(true) }))
	require.Eventually(t, after.Load, time.Second, 5*time.Millisecond)
}

func TestLoop_HandlerPanicKeepsRunning(t *testing.T) {
	l, ticks, _ := newTestLoop(t, WithUPS(500))
	ticks.Subscribe(stream.HandlerFunc[uint64](func(uint64) { panic(errors.New("bad tick")) }))
	rec := streamtest.NewRecorder[uint64]()
	ticks.Subscribe(rec)

	stop := start(t, l)
	require.Eventually(t, func() bool { return rec.Len() >= 2 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestForward(t *testing.T) {
	l, _, _ := newTestLoop(t)
	src := streamtest.NewSpy[int]("src", nil)
	rec := streamtest.NewRecorder[int]()

	cancel := Forward[int](l, src).Subscribe(rec)
	assert.Equal(t, 1, src.Subscribed())

	// queued before the loop runs
	require.NoError(t, src.Emit(1))
	require.NoError(t, src.Emit(2))
	assert.Zero(t, rec.Len(), "delivery happens on the loop goroutine")

	stop := start(t, l)
	require.Eventually(t, func() bool { return rec.Len() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 2}, rec.Values())

	cancel()
	cancel()
	assert.Equal(t, 1, src.Cancelled())
	require.NoError(t, src.Emit(3))
	stop()
	assert.Equal(t, []int{1, 2}, rec.Values())
}

func TestForward_DropsQueuedValuesAfterCancel(t *testing.T) {
	l, _, _ := newTestLoop(t)
	src, emit := stream.Create[int]()
	rec := streamtest.NewRecorder[int]()

	cancel := Forward[int](l, src).Subscribe(rec)
	require.NoError(t, emit(1))
	cancel()

	stop := start(t, l)
	var flushed atomic.Bool
	require.NoError(t, l.Dispatch(func() { flushed.Store(true) }))
	require.Eventually(t, flushed.Load, time.Second, 5*time.Millisecond)
	stop()

	assert.Zero(t, rec.Len())
}

func TestLoop_TryDispatch(t *testing.T) {
	l, _, _ := newTestLoop(t)

	for range dispatchBuffer {
		require.NoError(t, l.TryDispatch(func() {}))
	}
	assert.ErrorIs(t, l.TryDispatch(func() {}), ErrQueueFull)
	assert.NoError(t, l.TryDispatch(nil))

	stop := start(t, l)
	stop()
	assert.ErrorIs(t, l.TryDispatch(func() {}), ErrLoopStopped)
}

func TestLoop_DispatchUnblocksOnCancel(t *testing.T) {
	l, _, _ := newTestLoop(t)
	for range dispatchBuffer {
		require.NoError(t, l.TryDispatch(func() {}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.ErrorIs(t, l.Dispatch(func() {}), ErrLoopStopped)
}

func TestLoop_ForwardFromTickHandlerWithFullQueue(t *testing.T) {
	l, ticks, _ := newTestLoop(t, WithUPS(1000))

	burst := stream.NewRegistry[int](stream.WithName("burst"))
	rec := streamtest.NewRecorder[int]()
	cancelForward := Forward[int](l, burst).Subscribe(rec)
	defer cancelForward()

	// every tick produces more values than the queue holds
	var ticked atomic.Int32
	ticks.Subscribe(stream.HandlerFunc[uint64](func(uint64) {
		for i := range 300 {
			_ = burst.Emit(i)
		}
		ticked.Add(1)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return ticked.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Positive(t, rec.Len(), "values that fit in the queue are delivered")
}
