package client

import (
	"context"
	"net/http"
	"strings"

	"agent-funds/internal/store"
)

func (c *Client) ListAgents(ctx context.Context, page, limit int, search string) (AgentPage, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out AgentPage
	err := c.do(ctx, http.MethodGet, "/agents", q, nil, &out)
	return out, err
}

func (c *Client) CreateAgent(ctx context.Context, in AgentInput) (*store.Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if in.CoinsBalance < 0 {
		return nil, &ValidationError{Field: "coins_balance", Reason: "must not be negative"}
	}
	var out struct {
		Data store.Agent `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/agents/create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) EditAgent(ctx context.Context, agentID string, in AgentInput) (*store.Agent, error) {
	if agentID == "" {
		return nil, &ValidationError{Field: "agent_id", Reason: "required"}
	}
	var out struct {
		Data store.Agent `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/agents/edit/"+agentID, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AgentBalanceTransaction adds or removes coins on the agent's own balance,
// with no sub-user counter-party.
func (c *Client) AgentBalanceTransaction(ctx context.Context, agentID string, typ store.TxnType, amount int64) (*FundResult, error) {
	if agentID == "" {
		return nil, &ValidationError{Field: "agent_id", Reason: "required"}
	}
	if err := validateFund(typ, amount); err != nil {
		return nil, err
	}
	body := map[string]any{"type": typ, "amount": amount}
	var out FundResult
	if err := c.do(ctx, http.MethodPost, "/agents/"+agentID+"/balance", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func validateFund(typ store.TxnType, amount int64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if typ != store.TxnAdd && typ != store.TxnRemove {
		return &ValidationError{Field: "type", Reason: "must be add or remove"}
	}
	return nil
}
