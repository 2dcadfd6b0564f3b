// Package metrics collects and exposes Prometheus metrics for the live
// session engine.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/event"
)

// Collector observes domain events from the bus and turns them into
// Prometheus metrics. It never touches room state directly.
type Collector struct {
	roomsCreated  prometheus.Counter
	roomsFinished prometheus.Counter
	liveRooms     prometheus.Gauge
	answersScored prometheus.Counter
	pointsAwarded prometheus.Counter
}

// NewCollector registers the metrics on reg and subscribes to the bus.
func NewCollector(reg prometheus.Registerer, eb *event.Bus) *Collector {
	c := &Collector{
		roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livequiz_rooms_created_total",
			Help: "Total number of rooms created.",
		}),
		roomsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livequiz_rooms_finished_total",
			Help: "Total number of rooms that exhausted their question list.",
		}),
		liveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livequiz_live_rooms",
			Help: "Number of rooms currently registered.",
		}),
		answersScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livequiz_answers_scored_total",
			Help: "Total number of scored answer submissions.",
		}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livequiz_points_awarded_total",
			Help: "Total points awarded across all rooms.",
		}),
	}

	reg.MustRegister(
		c.roomsCreated,
		c.roomsFinished,
		c.liveRooms,
		c.answersScored,
		c.pointsAwarded,
	)

	eb.Subscribe(domain.EventNameRoomCreated, func(ctx context.Context, e event.Event) error {
		c.roomsCreated.Inc()
		c.liveRooms.Inc()
		return nil
	})
	eb.Subscribe(domain.EventNameRoomDestroyed, func(ctx context.Context, e event.Event) error {
		c.liveRooms.Dec()
		return nil
	})
	eb.Subscribe(domain.EventNameRoomFinished, func(ctx context.Context, e event.Event) error {
		c.roomsFinished.Inc()
		return nil
	})
	eb.Subscribe(domain.EventNameScoreUpdated, func(ctx context.Context, e event.Event) error {
		c.answersScored.Inc()
		c.pointsAwarded.Add(float64(e.(domain.EventScoreUpdated).Awarded))
		return nil
	})

	return c
}
