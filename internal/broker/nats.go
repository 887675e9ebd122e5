package broker

import (
	"fmt"
	"log/slog"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/nats-io/nats.go"
)

// FromNATS exposes a NATS subject as a stream of raw payloads.
//
// Every Subscribe opens its own NATS subscription and the returned canceller
// unsubscribes it. Payloads are delivered on the NATS dispatcher goroutine of
// that subscription, one at a time. A failed NATS subscribe is logged and
// yields an inert subscription.
func FromNATS(nc *nats.Conn, subject string) stream.Stream[[]byte] {
	return stream.StreamFunc[[]byte](func(h stream.Handler[[]byte]) stream.Action {
		sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
			h.Handle(msg.Data)
		})
		if err != nil {
			slog.Error("failed to subscribe", slogx.Error(err), slog.String("subject", subject))
			return func() {}
		}

		return stream.Once(func() {
			if err := sub.Unsubscribe(); err != nil {
				slog.Error("failed to unsubscribe", slogx.Error(err), slog.String("subject", subject))
			}
		})
	})
}

// Forward publishes every event of s to subject until the returned canceller
// runs.
func Forward(nc *nats.Conn, subject string, s stream.Stream[events.Event]) stream.Action {
	return s.Subscribe(stream.HandlerFunc[events.Event](func(e events.Event) {
		data, err := events.ToJSON(e)
		if err != nil {
			slog.Error("failed to encode event", slogx.Error(err), slog.String("type", fmt.Sprintf("%T", e)))
			return
		}
		if err := nc.Publish(subject, data); err != nil {
			slog.Error("failed to publish event", slogx.Error(err), slog.String("subject", subject))
		}
	}))
}
