package broker

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/coder/websocket"
)

// WebSocketHandler accepts websocket connections and routes every JSON event
// a client sends into the hub until the client goes away. Binary messages and
// undecodable payloads are dropped.
func WebSocketHandler(h *Hub) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
		if err != nil {
			h.logger.Error("failed to accept websocket connection", slogx.Error(err))
			return
		}
		defer func() { _ = conn.CloseNow() }()

		logger := h.logger.With(slog.String("client", req.RemoteAddr))
		logger.Debug("accept websocket connection")

		payloads, emit := stream.Create[[]byte](stream.WithName("websocket"), stream.WithLogger(logger))
		cancel := Decode(payloads).Subscribe(stream.HandlerFunc[events.Event](func(e events.Event) {
			if err := Route(h, e); err != nil {
				logger.Error("failed to route event", slogx.Error(err), slog.String("type", e.Type()))
			}
		}))
		defer cancel()

		ctx := req.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				var closeErr websocket.CloseError
				if errors.As(err, &closeErr) || ctx.Err() != nil {
					logger.Debug("websocket connection closed", slogx.Error(err))
				} else {
					logger.Warn("websocket read failed", slogx.Error(err))
				}
				return
			}
			if typ != websocket.MessageText {
				continue
			}
			if err := emit(data); err != nil {
				logger.Error("websocket event handler failed", slogx.Error(err))
			}
		}
	})
}
