package game

import (
	"fmt"
	"sync"

	"github.com/casualjim/shoal/internal/camera"
)

// recordingSurface records every call a Game makes on it.
type recordingSurface struct {
	id string

	mu    sync.Mutex
	calls []string
	size  [2]int
	last  []camera.Transform
}

func newRecordingSurface(id string) *recordingSurface {
	return &recordingSurface{id: id}
}

func (s *recordingSurface) ID() string { return s.id }

func (s *recordingSurface) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = [2]int{w, h}
	s.calls = append(s.calls, fmt.Sprintf("resize %dx%d", w, h))
}

func (s *recordingSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "clear")
	s.last = nil
}

func (s *recordingSurface) ApplyTransform(t camera.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "apply")
	s.last = append(s.last, t)
}

func (s *recordingSurface) ResetTransform() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "reset")
}

func (s *recordingSurface) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingSurface) Size() [2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *recordingSurface) Applied() []camera.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]camera.Transform(nil), s.last...)
}
