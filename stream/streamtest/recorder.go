package streamtest

import (
	"sync"

	"github.com/casualjim/shoal/stream"
)

var _ stream.Handler[int] = (*Recorder[int])(nil)

// Recorder records delivered values for tests and diagnostics.
//
// Recorder is safe under concurrent Handle calls.
type Recorder[T any] struct {
	values []T
	mu     sync.Mutex
}

// NewRecorder constructs a Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Handle appends v to the recorder.
func (r *Recorder[T]) Handle(v T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

// Values returns a snapshot copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]T, len(r.values))
	copy(cp, r.values)
	return cp
}

// Len returns how many values were recorded.
func (r *Recorder[T]) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Spy is a Stream whose subscriptions and cancellations are counted, for
// asserting that combinators subscribe and tear down exactly once.
type Spy[T any] struct {
	*stream.Registry[T]

	mu         sync.Mutex
	subscribed int
	cancelled  int
	label      string
	journal    *Journal
}

// Journal collects the labelled cancel events of several spies in order.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Entries returns a snapshot of the journal.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := make([]string, len(j.entries))
	copy(cp, j.entries)
	return cp
}

func (j *Journal) add(entry string) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

// NewSpy creates a Spy backed by a fresh Registry. Cancellations are
// written to journal under label when journal is not nil.
func NewSpy[T any](label string, journal *Journal) *Spy[T] {
	return &Spy[T]{
		Registry: stream.NewRegistry[T](stream.WithName(label)),
		label:    label,
		journal:  journal,
	}
}

// Subscribe counts the subscription and wraps its canceller so that every
// invocation, including repeated ones, is counted.
func (p *Spy[T]) Subscribe(h stream.Handler[T]) stream.Action {
	p.mu.Lock()
	p.subscribed++
	p.mu.Unlock()

	cancel := p.Registry.Subscribe(h)
	return func() {
		p.mu.Lock()
		p.cancelled++
		p.mu.Unlock()
		if p.journal != nil {
			p.journal.add(p.label)
		}
		cancel()
	}
}

// Subscribed returns how many times Subscribe was called.
func (p *Spy[T]) Subscribed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed
}

// Cancelled returns how many times a canceller handed out by Subscribe ran.
func (p *Spy[T]) Cancelled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}
