package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackEvent(t *testing.T) {
	counter := eventStatusCounter.WithLabelValues("pointer", StatusRouted)
	before := testutil.ToFloat64(counter)

	TrackEvent("pointer", StatusRouted)
	TrackEvent("pointer", StatusRouted)

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
}

func TestTrackDuration(t *testing.T) {
	TrackDuration("test-op")()

	assert.GreaterOrEqual(t, testutil.CollectAndCount(operationDurationHistogram), 1)
}
