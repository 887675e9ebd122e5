package main

import (
	"log/slog"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/internal/camera"
	"github.com/casualjim/shoal/internal/game"
)

var _ game.Surface = (*logSurface)(nil)

// logSurface is a headless surface that logs what would be drawn.
type logSurface struct {
	id     string
	width  int
	height int
	depth  int
	logger *slog.Logger
}

func newLogSurface(evt events.SurfaceAcquired) *logSurface {
	return &logSurface{
		id:     evt.Surface,
		width:  evt.Width,
		height: evt.Height,
		logger: slog.Default().With(slog.String("surface", evt.Surface)),
	}
}

func (s *logSurface) ID() string { return s.id }

func (s *logSurface) Resize(w, h int) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.logger.Info("surface resized", slog.Int("width", w), slog.Int("height", h))
}

func (s *logSurface) Clear() {
	s.depth = 0
}

func (s *logSurface) ApplyTransform(t camera.Transform) {
	s.depth++
	s.logger.Debug("transform applied",
		slog.Int("depth", s.depth),
		slog.Float64("x", t.Position.X),
		slog.Float64("y", t.Position.Y),
		slog.Float64("rotation", t.Rotation),
	)
}

func (s *logSurface) ResetTransform() {
	s.depth = 0
}
