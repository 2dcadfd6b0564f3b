package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/event"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
		return m.GetGauge().GetValue()
	}

	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollector_RoomLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	eb := event.NewBus()
	NewCollector(reg, eb)

	ctx := context.Background()
	eb.Publish(ctx, domain.EventRoomCreated{Room: "AAAAAA"})
	eb.Publish(ctx, domain.EventRoomCreated{Room: "BBBBBB"})
	eb.Publish(ctx, domain.EventRoomDestroyed{Room: "AAAAAA"})
	eb.Stop()

	assert.Equal(t, 2.0, gatherValue(t, reg, "livequiz_rooms_created_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "livequiz_live_rooms"))
}

func TestCollector_Scoring(t *testing.T) {
	reg := prometheus.NewRegistry()
	eb := event.NewBus()
	NewCollector(reg, eb)

	ctx := context.Background()
	eb.Publish(ctx, domain.EventScoreUpdated{Room: "AAAAAA", Player: "Alice", Awarded: 800, Total: 800})
	eb.Publish(ctx, domain.EventScoreUpdated{Room: "AAAAAA", Player: "Bob", Awarded: 0, Total: 0})
	eb.Publish(ctx, domain.EventRoomFinished{Room: "AAAAAA", Scores: map[string]int{"Alice": 800, "Bob": 0}})
	eb.Stop()

	assert.Equal(t, 2.0, gatherValue(t, reg, "livequiz_answers_scored_total"))
	assert.Equal(t, 800.0, gatherValue(t, reg, "livequiz_points_awarded_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "livequiz_rooms_finished_total"))
}
