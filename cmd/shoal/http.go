package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/casualjim/shoal/internal/broker"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func newHTTPHandler(hub *broker.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/ws", broker.WebSocketHandler(hub))
	return cors.Default().Handler(mux)
}

// serveHTTP listens on addr and returns a func that shuts the server down.
func serveHTTP(addr string, hub *broker.Hub) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           newHTTPHandler(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slogx.Error(err))
		}
	}()
	slog.Info("http server started", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("http server shutdown failed", slogx.Error(err))
		}
	}, nil
}
