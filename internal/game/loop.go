package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/casualjim/shoal/internal/metrics"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/fogfish/opts"
)

const (
	// DefaultUPS is the default number of simulation ticks per second.
	DefaultUPS = 30
	// DefaultFPS is the default number of rendered frames per second.
	DefaultFPS = 60
	// MaxRate bounds both the tick and the frame rate.
	MaxRate = 10_000

	dispatchBuffer = 256
)

var (
	// ErrLoopStopped is returned by Dispatch once the loop is stopping.
	ErrLoopStopped = errors.New("loop stopped")
	// ErrQueueFull is returned by TryDispatch when the dispatch queue is full.
	ErrQueueFull = errors.New("dispatch queue full")
)

// LoopOption configures a Loop.
type LoopOption = opts.Option[Loop]

var (
	// WithUPS sets the tick rate.
	WithUPS = opts.ForName[Loop, int]("ups")
	// WithFPS sets the frame rate.
	WithFPS = opts.ForName[Loop, int]("fps")
)

// WithLoopLogger sets the logger of the Loop. A nil logger keeps the default.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return opts.Type[Loop](func(l *Loop) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	})
}

// Loop emits tick and frame counters at fixed rates and runs dispatched
// functions, all from the goroutine that calls Run.
type Loop struct {
	ticks  *stream.Registry[uint64]
	frames *stream.Registry[uint64]
	ups    int
	fps    int
	logger *slog.Logger

	queue    chan func()
	stopping chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a Loop that emits on ticks and frames.
func NewLoop(ticks, frames *stream.Registry[uint64], options ...LoopOption) (*Loop, error) {
	if ticks == nil || frames == nil {
		return nil, errors.New("tick and frame registries are required")
	}

	l := &Loop{
		ticks:    ticks,
		frames:   frames,
		ups:      DefaultUPS,
		fps:      DefaultFPS,
		logger:   slog.Default().With(slogx.LoggerName("loop")),
		queue:    make(chan func(), dispatchBuffer),
		stopping: make(chan struct{}),
	}
	if err := opts.Apply(l, options); err != nil {
		return nil, err
	}
	if l.ups <= 0 || l.ups > MaxRate {
		return nil, fmt.Errorf("ups must be between 1 and %d, got %d", MaxRate, l.ups)
	}
	if l.fps <= 0 || l.fps > MaxRate {
		return nil, fmt.Errorf("fps must be between 1 and %d, got %d", MaxRate, l.fps)
	}
	return l, nil
}

// Dispatch schedules fn to run on the loop goroutine. It blocks while the
// queue is full and fails once the loop is stopping, which happens as soon as
// the context given to Run is done. Code running on the loop goroutine must use
// TryDispatch instead.
func (l *Loop) Dispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-l.stopping:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.stopping:
		return ErrLoopStopped
	}
}

// TryDispatch schedules fn like Dispatch but never blocks: it fails with
// ErrQueueFull when the queue is full.
func (l *Loop) TryDispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-l.stopping:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() { close(l.stopping) })
}

// Run drives the loop until ctx is done. A Loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	unregister := context.AfterFunc(ctx, l.stop)
	defer unregister()

	updates := time.NewTicker(time.Second / time.Duration(l.ups))
	defer updates.Stop()
	renders := time.NewTicker(time.Second / time.Duration(l.fps))
	defer renders.Stop()

	l.logger.Info("loop started", slog.Int("ups", l.ups), slog.Int("fps", l.fps))

	var tick, frame uint64
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", slog.Uint64("ticks", tick), slog.Uint64("frames", frame))
			return ctx.Err()
		case fn := <-l.queue:
			l.run(fn)
		case <-updates.C:
			tick++
			l.emit(l.ticks, tick)
		case <-renders.C:
			frame++
			l.emit(l.frames, frame)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatched function panicked", slog.Any("panic", r))
		}
	}()
	fn()
}

func (l *Loop) emit(reg *stream.Registry[uint64], n uint64) {
	defer metrics.TrackDuration(reg.Name())()
	if err := reg.Emit(n); err != nil {
		l.logger.Error("loop handler failed", slogx.Error(err), slog.String("stream", reg.Name()), slog.Uint64("n", n))
	}
}

// Forward returns a stream that re-emits every value of s on the loop
// goroutine. It never blocks the producer, so s may itself emit from the loop
// goroutine. Values that find the queue full, values produced once the loop is
// stopping and values still queued when the subscription is cancelled are
// dropped.
func Forward[T any](l *Loop, s stream.Stream[T]) stream.Stream[T] {
	return stream.StreamFunc[T](func(h stream.Handler[T]) stream.Action {
		var active atomic.Bool
		active.Store(true)

		cancel := s.Subscribe(stream.HandlerFunc[T](func(v T) {
			err := l.TryDispatch(func() {
				if active.Load() {
					h.Handle(v)
				}
			})
			if err != nil {
				l.logger.Debug("value dropped", slogx.Error(err))
			}
		}))
		return stream.Once(func() {
			active.Store(false)
			cancel()
		})
	})
}
