package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/victornm/livequiz/internal/domain"
	"github.com/victornm/livequiz/internal/errors"
	"github.com/victornm/livequiz/internal/event"
)

// finishedTTL keeps a finished room's standings around long enough for
// result pages, without growing redis forever.
const finishedTTL = 24 * time.Hour

type Config struct {
	EventBus *event.Bus
	Redis    redis.UniversalClient
	Prefix   string
}

// Service mirrors each room's running totals into a redis sorted set so
// standings are queryable over HTTP without touching the room's lock.
type Service struct {
	eb     *event.Bus
	redis  redis.UniversalClient
	prefix string
}

func NewService(c Config) *Service {
	s := &Service{
		eb:     c.EventBus,
		redis:  c.Redis,
		prefix: c.Prefix,
	}

	s.eb.Subscribe(domain.EventNameScoreUpdated, func(ctx context.Context, e event.Event) error {
		return s.recordScore(ctx, e.(domain.EventScoreUpdated))
	})
	s.eb.Subscribe(domain.EventNameRoomFinished, func(ctx context.Context, e event.Event) error {
		return s.sealRoom(ctx, e.(domain.EventRoomFinished))
	})
	s.eb.Subscribe(domain.EventNameRoomDestroyed, func(ctx context.Context, e event.Event) error {
		return s.expireRoom(ctx, e.(domain.EventRoomDestroyed).Room)
	})

	return s
}

type GetLeaderboardRequest struct {
	Room string
}

// GetLeaderboard returns the room's standings, best score first.
func (s *Service) GetLeaderboard(ctx context.Context, req GetLeaderboardRequest) (*domain.Leaderboard, error) {
	res, err := s.redis.ZRevRangeWithScores(ctx, s.key(req.Room), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}

	if len(res) == 0 {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("leaderboard not found: room=%s", req.Room))
	}

	entries := make([]domain.LeaderboardEntry, 0, len(res))
	for _, z := range res {
		entries = append(entries, domain.LeaderboardEntry{
			Name:  z.Member.(string),
			Score: int(z.Score),
		})
	}

	return &domain.Leaderboard{
		Room:    req.Room,
		Entries: entries,
	}, nil
}

// recordScore overwrites the player's total in the room's sorted set.
func (s *Service) recordScore(ctx context.Context, e domain.EventScoreUpdated) error {
	if err := s.redis.ZAdd(ctx, s.key(e.Room), redis.Z{
		Score:  float64(e.Total),
		Member: e.Player,
	}).Err(); err != nil {
		return fmt.Errorf("record score: %w", err)
	}

	return nil
}

// sealRoom writes the final standings wholesale and bounds their
// lifetime. Players who never answered still appear with zero.
func (s *Service) sealRoom(ctx context.Context, e domain.EventRoomFinished) error {
	if len(e.Scores) > 0 {
		members := make([]redis.Z, 0, len(e.Scores))
		for name, total := range e.Scores {
			members = append(members, redis.Z{Score: float64(total), Member: name})
		}
		if err := s.redis.ZAdd(ctx, s.key(e.Room), members...).Err(); err != nil {
			return fmt.Errorf("seal room: %w", err)
		}
	}

	return s.redis.Expire(ctx, s.key(e.Room), finishedTTL).Err()
}

func (s *Service) expireRoom(ctx context.Context, room string) error {
	return s.redis.Expire(ctx, s.key(room), finishedTTL).Err()
}

func (s *Service) key(room string) string {
	return fmt.Sprintf("%s:%s:leaderboard", s.prefix, room)
}
