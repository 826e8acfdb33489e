package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemStore is the default Store: everything lives behind one mutex. It backs
// tests and single-node deployments without postgres.
type MemStore struct {
	mu       sync.RWMutex
	agents   map[string]*Agent
	users    map[string]*AgentUser
	txns     []Transaction // newest first
	modes    map[string]string
	sessions []GameSession // newest first
}

func NewMemStore() *MemStore {
	return &MemStore{
		agents: make(map[string]*Agent),
		users:  make(map[string]*AgentUser),
		modes:  make(map[string]string),
	}
}

func (s *MemStore) CreateAgent(_ context.Context, a *Agent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = NewID()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	s.agents[a.ID] = &cp
	return a.ID, nil
}

func (s *MemStore) GetAgent(_ context.Context, id string) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	cp.TotalUsers = s.countUsersLocked(id)
	return &cp, nil
}

func (s *MemStore) UpdateAgent(_ context.Context, a *Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.agents[a.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *a
	// Balances move only through fund transactions; an edit carrying a stale
	// balance snapshot must not undo a commit that landed in between.
	cp.CoinsBalance = cur.CoinsBalance
	cp.CreatedAt = cur.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	s.agents[a.ID] = &cp
	return nil
}

func (s *MemStore) ListAgents(_ context.Context, q ListQuery) ([]Agent, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]Agent, 0, len(s.agents))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, a := range s.agents {
		if needle != "" && !containsFold(needle, a.Name, a.Mobile, a.Email) {
			continue
		}
		cp := *a
		cp.TotalUsers = s.countUsersLocked(a.ID)
		matched = append(matched, cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	start, end := pageBounds(q.Page, q.Limit, total)
	return matched[start:end], total, nil
}

func (s *MemStore) countUsersLocked(agentID string) int {
	n := 0
	for _, u := range s.users {
		if u.AgentID == agentID {
			n++
		}
	}
	return n
}

func (s *MemStore) CreateAgentUser(_ context.Context, u *AgentUser) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[u.AgentID]; !ok {
		return "", ErrNotFound
	}
	if u.ID == "" {
		u.ID = NewID()
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return u.ID, nil
}

func (s *MemStore) GetAgentUser(_ context.Context, id string) (*AgentUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemStore) UpdateAgentUser(_ context.Context, u *AgentUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *u
	cp.AgentID = cur.AgentID
	cp.AvailableBalance = cur.AvailableBalance
	cp.CreatedAt = cur.CreatedAt
	s.users[u.ID] = &cp
	return nil
}

func (s *MemStore) ListAgentUsers(_ context.Context, q ListQuery) ([]AgentUser, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]AgentUser, 0, len(s.users))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, u := range s.users {
		if q.AgentID != "" && u.AgentID != q.AgentID {
			continue
		}
		if needle != "" && !containsFold(needle, u.Name, u.Phone) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	start, end := pageBounds(q.Page, q.Limit, total)
	return matched[start:end], total, nil
}

func (s *MemStore) CommitFundTransaction(_ context.Context, txn *Transaction, agentBalance int64, userBalance *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	agent, ok := s.agents[txn.AgentID]
	if !ok {
		return ErrNotFound
	}
	if agent.CoinsBalance != txn.AgentBalanceBefore {
		return ErrStaleSnapshot
	}
	var user *AgentUser
	if txn.UserID != nil {
		user, ok = s.users[*txn.UserID]
		if !ok {
			return ErrNotFound
		}
		if userBalance == nil || txn.UserBalanceBefore == nil || user.AvailableBalance != *txn.UserBalanceBefore {
			return ErrStaleSnapshot
		}
	}
	agent.CoinsBalance = agentBalance
	agent.UpdatedAt = time.Now().UTC()
	if user != nil {
		user.AvailableBalance = *userBalance
	}
	s.txns = append([]Transaction{*txn}, s.txns...)
	return nil
}

func (s *MemStore) ListTransactions(_ context.Context, f TransactionFilter, page, limit int) ([]Transaction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]Transaction, 0, len(s.txns))
	nameNeedle := strings.ToLower(strings.TrimSpace(f.UserName))
	for _, t := range s.txns {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.UserID != "" && (t.UserID == nil || *t.UserID != f.UserID) {
			continue
		}
		if nameNeedle != "" && !strings.Contains(strings.ToLower(t.UserName), nameNeedle) {
			continue
		}
		matched = append(matched, t)
	}
	total := len(matched)
	start, end := pageBounds(page, limit, total)
	return matched[start:end], total, nil
}

func (s *MemStore) ListUserTransactions(ctx context.Context, userID string, page, limit int) ([]Transaction, int, error) {
	return s.ListTransactions(ctx, TransactionFilter{UserID: userID}, page, limit)
}

func (s *MemStore) GetSessionMode(_ context.Context, game string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mode, ok := s.modes[game]
	if !ok {
		return "automatic", nil
	}
	return mode, nil
}

func (s *MemStore) SetSessionMode(_ context.Context, game, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[game] = mode
	return nil
}

func (s *MemStore) InsertGameSession(_ context.Context, sess *GameSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.ID == "" {
		sess.ID = NewID()
	}
	s.sessions = append([]GameSession{*sess}, s.sessions...)
	return sess.ID, nil
}

func (s *MemStore) ListGameSessions(_ context.Context, game, search string, page, limit int) ([]GameSession, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]GameSession, 0, len(s.sessions))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, sess := range s.sessions {
		if sess.Game != game {
			continue
		}
		if needle != "" && !containsFold(needle, sess.ID, sess.Mode) {
			continue
		}
		matched = append(matched, sess)
	}
	total := len(matched)
	start, end := pageBounds(page, limit, total)
	return matched[start:end], total, nil
}

func (s *MemStore) GameDailyStats(_ context.Context, game string, day time.Time) (DailyStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if day.IsZero() {
		day = time.Now().UTC()
	}
	date := day.UTC().Format("2006-01-02")
	stats := DailyStats{Date: date}
	for _, sess := range s.sessions {
		if sess.Game != game || sess.StartedAt.UTC().Format("2006-01-02") != date {
			continue
		}
		stats.TotalBetAmount += sess.TotalBetAmount
		stats.TotalWinningAmount += sess.TotalWinningAmount
	}
	return stats, nil
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Close() {}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
