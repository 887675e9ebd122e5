package broker

import (
	"log/slog"

	"github.com/casualjim/shoal/events"
	"github.com/casualjim/shoal/internal/metrics"
	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/stream"
	"github.com/tidwall/gjson"
)

// Decode turns a stream of JSON payloads into a stream of events.
// Payloads that do not decode are logged and dropped.
func Decode(payloads stream.Stream[[]byte]) stream.Stream[events.Event] {
	return stream.StreamFunc[events.Event](func(h stream.Handler[events.Event]) stream.Action {
		return payloads.Subscribe(stream.HandlerFunc[[]byte](func(data []byte) {
			evt, err := events.FromJSON(data)
			if err != nil {
				slog.Warn("dropping undecodable event", slogx.Error(err), slogx.ByteString("payload", data))
				metrics.TrackEvent(typeLabel(data), metrics.StatusUndecodable)
				return
			}
			h.Handle(evt)
		}))
	})
}

// typeLabel returns the type marker of a payload when it is a known one.
func typeLabel(data []byte) string {
	switch tpe := gjson.GetBytes(data, "type").String(); tpe {
	case events.TypePointer, events.TypeViewport, events.TypeSurface:
		return tpe
	default:
		return "unknown"
	}
}
