package domain

import "time"

const (
	EventNameRoomCreated   = "room.created"
	EventNameRoomDestroyed = "room.destroyed"
	EventNameScoreUpdated  = "score.updated"
	EventNameRoomFinished  = "room.finished"
)

type EventRoomCreated struct {
	Room string
}

func (EventRoomCreated) Name() string { return EventNameRoomCreated }

type EventRoomDestroyed struct {
	Room string
}

func (EventRoomDestroyed) Name() string { return EventNameRoomDestroyed }

// EventScoreUpdated is published every time an answer is scored.
type EventScoreUpdated struct {
	Room       string
	Player     string
	Awarded    int
	Total      int
	UpdateTime time.Time
}

func (EventScoreUpdated) Name() string { return EventNameScoreUpdated }

// EventRoomFinished is published once a room exhausts its question list.
// Scores map player names to their final totals.
type EventRoomFinished struct {
	Room   string
	Scores map[string]int
}

func (EventRoomFinished) Name() string { return EventNameRoomFinished }
