package agents

import (
	"context"
	"errors"
	"strings"

	"agent-funds/internal/ledger"
	"agent-funds/internal/store"
)

type Service struct {
	store  store.Store
	engine *ledger.Engine
}

func NewService(st store.Store, engine *ledger.Engine) *Service {
	return &Service{store: st, engine: engine}
}

func (s *Service) CreateAgent(ctx context.Context, in CreateAgentInput) (*store.Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidRequest
	}
	if in.CoinsBalance < 0 {
		return nil, ErrInvalidRequest
	}
	if in.CoinPercentage < 1 || in.CoinPercentage > 100 {
		return nil, ErrInvalidRequest
	}
	agent := &store.Agent{
		Name:           strings.TrimSpace(in.Name),
		Mobile:         strings.TrimSpace(in.Mobile),
		Email:          strings.TrimSpace(in.Email),
		CoinsBalance:   in.CoinsBalance,
		CoinPercentage: in.CoinPercentage,
		CoinRefundable: in.CoinRefundable,
		Status:         store.AgentActive,
	}
	id, err := s.store.CreateAgent(ctx, agent)
	if err != nil {
		return nil, err
	}
	return s.store.GetAgent(ctx, id)
}

func (s *Service) EditAgent(ctx context.Context, agentID string, in EditAgentInput) (*store.Agent, error) {
	if agentID == "" {
		return nil, ErrInvalidRequest
	}
	agent, err := s.store.GetAgent(ctx, agentID)
	if err != nil {
		return nil, agentErr(err)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, ErrInvalidRequest
		}
		agent.Name = strings.TrimSpace(*in.Name)
	}
	if in.Mobile != nil {
		agent.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if in.Email != nil {
		agent.Email = strings.TrimSpace(*in.Email)
	}
	if in.CoinPercentage != nil {
		if *in.CoinPercentage < 1 || *in.CoinPercentage > 100 {
			return nil, ErrInvalidRequest
		}
		agent.CoinPercentage = *in.CoinPercentage
	}
	if in.CoinRefundable != nil {
		agent.CoinRefundable = *in.CoinRefundable
	}
	if in.Status != nil {
		if *in.Status != store.AgentActive && *in.Status != store.AgentInactive {
			return nil, ErrInvalidRequest
		}
		agent.Status = *in.Status
	}
	if err := s.store.UpdateAgent(ctx, agent); err != nil {
		return nil, agentErr(err)
	}
	return s.store.GetAgent(ctx, agentID)
}

func (s *Service) ListAgents(ctx context.Context, page, limit int, search string) ([]store.Agent, int, error) {
	return s.store.ListAgents(ctx, store.ListQuery{Page: page, Limit: limit, Search: search})
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*store.AgentUser, error) {
	if strings.TrimSpace(in.Name) == "" || in.AgentID == "" {
		return nil, ErrInvalidRequest
	}
	if in.AvailableBalance < 0 {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetAgent(ctx, in.AgentID); err != nil {
		return nil, agentErr(err)
	}
	user := &store.AgentUser{
		AgentID:          in.AgentID,
		Name:             strings.TrimSpace(in.Name),
		Phone:            strings.TrimSpace(in.Phone),
		AvailableBalance: in.AvailableBalance,
		Status:           true,
	}
	id, err := s.store.CreateAgentUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.store.GetAgentUser(ctx, id)
}

func (s *Service) EditUser(ctx context.Context, userID string, in EditUserInput) (*store.AgentUser, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	user, err := s.store.GetAgentUser(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, ErrInvalidRequest
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if err := s.store.UpdateAgentUser(ctx, user); err != nil {
		return nil, userErr(err)
	}
	return s.store.GetAgentUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, page, limit int, search string) ([]store.AgentUser, int, error) {
	return s.store.ListAgentUsers(ctx, store.ListQuery{Page: page, Limit: limit, Search: search})
}

// AgentFund applies an add/remove against the agent's own balance.
func (s *Service) AgentFund(ctx context.Context, agentID string, in FundInput) (*FundOutcome, error) {
	txn, err := s.engine.Apply(ctx, ledger.ApplyInput{
		SubjectID:   agentID,
		SubjectKind: ledger.SubjectAgent,
		Type:        in.Type,
		Amount:      in.Amount,
		CreatedBy:   in.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	agent, err := s.store.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return &FundOutcome{Agent: agent, Transaction: txn}, nil
}

// UserFund moves coins between a sub-user and its owning agent.
func (s *Service) UserFund(ctx context.Context, userID string, in FundInput) (*FundOutcome, error) {
	txn, err := s.engine.Apply(ctx, ledger.ApplyInput{
		SubjectID:   userID,
		SubjectKind: ledger.SubjectUser,
		Type:        in.Type,
		Amount:      in.Amount,
		CreatedBy:   in.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetAgentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	agent, err := s.store.GetAgent(ctx, user.AgentID)
	if err != nil {
		return nil, err
	}
	return &FundOutcome{Agent: agent, User: user, Transaction: txn}, nil
}

func (s *Service) TransactionHistory(ctx context.Context, f store.TransactionFilter, page, limit int) ([]store.Transaction, int, error) {
	return s.store.ListTransactions(ctx, f, page, limit)
}

func (s *Service) UserTransactionHistory(ctx context.Context, userID string, page, limit int) ([]store.Transaction, int, error) {
	if userID == "" {
		return nil, 0, ErrInvalidRequest
	}
	if _, err := s.store.GetAgentUser(ctx, userID); err != nil {
		return nil, 0, userErr(err)
	}
	return s.store.ListUserTransactions(ctx, userID, page, limit)
}

func agentErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAgentNotFound
	}
	return err
}

func userErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
