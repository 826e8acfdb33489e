package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not_found")
	// ErrStaleSnapshot means a fund commit carried balance snapshots that no
	// longer match the stored balances. The engine serializes writers per
	// agent, so this only fires when something bypasses it.
	ErrStaleSnapshot = errors.New("stale_snapshot")
)

// Store is the persistence boundary shared by the in-memory and postgres
// implementations. Paged listings return the matching page plus the total
// match count.
type Store interface {
	CreateAgent(ctx context.Context, a *Agent) (string, error)
	GetAgent(ctx context.Context, id string) (*Agent, error)
	UpdateAgent(ctx context.Context, a *Agent) error
	ListAgents(ctx context.Context, q ListQuery) ([]Agent, int, error)

	CreateAgentUser(ctx context.Context, u *AgentUser) (string, error)
	GetAgentUser(ctx context.Context, id string) (*AgentUser, error)
	UpdateAgentUser(ctx context.Context, u *AgentUser) error
	ListAgentUsers(ctx context.Context, q ListQuery) ([]AgentUser, int, error)

	// CommitFundTransaction atomically writes the post-transaction balances
	// and appends the record. userBalance is nil for agent-self operations.
	CommitFundTransaction(ctx context.Context, txn *Transaction, agentBalance int64, userBalance *int64) error
	ListTransactions(ctx context.Context, f TransactionFilter, page, limit int) ([]Transaction, int, error)
	ListUserTransactions(ctx context.Context, userID string, page, limit int) ([]Transaction, int, error)

	GetSessionMode(ctx context.Context, game string) (string, error)
	SetSessionMode(ctx context.Context, game, mode string) error
	InsertGameSession(ctx context.Context, s *GameSession) (string, error)
	ListGameSessions(ctx context.Context, game, search string, page, limit int) ([]GameSession, int, error)
	GameDailyStats(ctx context.Context, game string, day time.Time) (DailyStats, error)

	Ping(ctx context.Context) error
	Close()
}

func pageBounds(page, limit, total int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return total, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
