package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"agent-funds/internal/store"
)

type SubjectKind string

const (
	SubjectAgent SubjectKind = "agent"
	SubjectUser  SubjectKind = "user"
)

// Collection keys referenced by refresh signals.
const (
	KeyAgents                 = "agents"
	KeyAgentUsers             = "agentUsers"
	KeyTransactions           = "transactions"
	KeyUserTransactionsPrefix = "userTransactions:"
)

func KeyUserTransactions(userID string) string {
	return KeyUserTransactionsPrefix + userID
}

// Notifier receives the collection keys whose remote views changed after a
// committed fund transaction. The engine never owns those collections.
type Notifier interface {
	CollectionsChanged(keys ...string)
}

type NotifierFunc func(keys ...string)

func (f NotifierFunc) CollectionsChanged(keys ...string) { f(keys...) }

type ApplyInput struct {
	SubjectID   string
	SubjectKind SubjectKind
	Type        store.TxnType
	Amount      int64
	CreatedBy   string
}

// Engine applies typed add/remove fund operations against agent and user
// balances. A user-side add is funded by a debit to the owning agent and a
// user-side remove credits it back; either leg going negative rejects the
// whole operation before any mutation.
type Engine struct {
	store    store.Store
	notifier Notifier

	mu         sync.Mutex
	agentLocks map[string]*sync.Mutex
}

func New(st store.Store, notifier Notifier) *Engine {
	return &Engine{
		store:      st,
		notifier:   notifier,
		agentLocks: make(map[string]*sync.Mutex),
	}
}

// Apply validates, serializes per owning agent, snapshots both sides, commits
// the balance mutations together with an immutable transaction record, and
// emits refresh signals for the affected collections.
func (e *Engine) Apply(ctx context.Context, in ApplyInput) (*store.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Type != store.TxnAdd && in.Type != store.TxnRemove {
		return nil, ErrInvalidRequest
	}

	switch in.SubjectKind {
	case SubjectUser:
		user, err := e.store.GetAgentUser(ctx, in.SubjectID)
		if err != nil {
			return nil, subjectErr(err)
		}
		return e.applyUser(ctx, user.AgentID, in)
	case SubjectAgent:
		return e.applyAgent(ctx, in)
	default:
		return nil, ErrInvalidRequest
	}
}

func (e *Engine) applyUser(ctx context.Context, agentID string, in ApplyInput) (*store.Transaction, error) {
	unlock := e.lockAgent(agentID)
	defer unlock()

	// Re-read both sides under the lock so the snapshots are the ones the
	// commit is applied against.
	user, err := e.store.GetAgentUser(ctx, in.SubjectID)
	if err != nil {
		return nil, subjectErr(err)
	}
	agent, err := e.store.GetAgent(ctx, user.AgentID)
	if err != nil {
		return nil, subjectErr(err)
	}

	userBefore := user.AvailableBalance
	agentBefore := agent.CoinsBalance
	var userAfter, agentAfter int64
	switch in.Type {
	case store.TxnAdd:
		userAfter = userBefore + in.Amount
		agentAfter = agentBefore - in.Amount
	case store.TxnRemove:
		userAfter = userBefore - in.Amount
		agentAfter = agentBefore + in.Amount
	}
	if userAfter < 0 || agentAfter < 0 {
		return nil, ErrInsufficientBalance
	}

	userID := user.ID
	txn := &store.Transaction{
		ID:                 store.NewID(),
		AgentID:            agent.ID,
		Type:               in.Type,
		Amount:             in.Amount,
		UserID:             &userID,
		UserName:           user.Name,
		CreatedBy:          in.CreatedBy,
		UserBalanceBefore:  &userBefore,
		UserBalanceAfter:   &userAfter,
		AgentBalanceBefore: agentBefore,
		AgentBalanceAfter:  agentAfter,
		CreatedAt:          time.Now().UTC(),
	}
	if err := e.store.CommitFundTransaction(ctx, txn, agentAfter, &userAfter); err != nil {
		return nil, err
	}
	e.notify(KeyAgents, KeyAgentUsers, KeyTransactions, KeyUserTransactions(user.ID))
	return txn, nil
}

func (e *Engine) applyAgent(ctx context.Context, in ApplyInput) (*store.Transaction, error) {
	unlock := e.lockAgent(in.SubjectID)
	defer unlock()

	agent, err := e.store.GetAgent(ctx, in.SubjectID)
	if err != nil {
		return nil, subjectErr(err)
	}

	before := agent.CoinsBalance
	var after int64
	switch in.Type {
	case store.TxnAdd:
		after = before + in.Amount
	case store.TxnRemove:
		after = before - in.Amount
	}
	if after < 0 {
		return nil, ErrInsufficientBalance
	}

	txn := &store.Transaction{
		ID:                 store.NewID(),
		AgentID:            agent.ID,
		Type:               in.Type,
		Amount:             in.Amount,
		CreatedBy:          in.CreatedBy,
		AgentBalanceBefore: before,
		AgentBalanceAfter:  after,
		CreatedAt:          time.Now().UTC(),
	}
	if err := e.store.CommitFundTransaction(ctx, txn, after, nil); err != nil {
		return nil, err
	}
	e.notify(KeyAgents, KeyTransactions)
	return txn, nil
}

// lockAgent serializes fund operations that touch one agent's balance. Every
// (agent, user) pair funnels through the owning agent, so same-pair operations
// never interleave while disjoint agents proceed independently.
func (e *Engine) lockAgent(agentID string) func() {
	e.mu.Lock()
	l, ok := e.agentLocks[agentID]
	if !ok {
		l = &sync.Mutex{}
		e.agentLocks[agentID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (e *Engine) notify(keys ...string) {
	if e.notifier != nil {
		e.notifier.CollectionsChanged(keys...)
	}
}

func subjectErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnknownSubject
	}
	return err
}
