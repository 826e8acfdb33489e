// Package gamesession is the server-side home of per-game settings and
// round statistics. Unlike the client controller, the server always has a
// concrete mode for a game: unknown games report automatic.
package gamesession

import (
	"context"
	"time"

	"agent-funds/internal/store"
)

const (
	ModeAutomatic = "automatic"
	ModeManual    = "manual"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) GetMode(ctx context.Context, game string) (string, error) {
	if game == "" {
		return "", ErrInvalidRequest
	}
	return s.store.GetSessionMode(ctx, game)
}

func (s *Service) SetMode(ctx context.Context, game, mode string) (string, error) {
	if game == "" {
		return "", ErrInvalidRequest
	}
	if mode != ModeAutomatic && mode != ModeManual {
		return "", ErrInvalidMode
	}
	if err := s.store.SetSessionMode(ctx, game, mode); err != nil {
		return "", err
	}
	return mode, nil
}

func (s *Service) SessionStats(ctx context.Context, game, search string, page, limit int) ([]store.GameSession, int, error) {
	if game == "" {
		return nil, 0, ErrInvalidRequest
	}
	return s.store.ListGameSessions(ctx, game, search, page, limit)
}

// DailyStats aggregates one UTC day; date is "2006-01-02", empty means today.
func (s *Service) DailyStats(ctx context.Context, game, date string) (store.DailyStats, error) {
	if game == "" {
		return store.DailyStats{}, ErrInvalidRequest
	}
	var day time.Time
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return store.DailyStats{}, ErrInvalidRequest
		}
		day = parsed
	}
	return s.store.GameDailyStats(ctx, game, day)
}
