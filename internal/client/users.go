package client

import (
	"context"
	"net/http"
	"strings"

	"agent-funds/internal/store"
)

func (c *Client) CreateAgentUser(ctx context.Context, in AgentUserInput) (*store.AgentUser, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if in.AgentID == "" {
		return nil, &ValidationError{Field: "agent_id", Reason: "required"}
	}
	if in.AvailableBalance < 0 {
		return nil, &ValidationError{Field: "availableBalance", Reason: "must not be negative"}
	}
	var out struct {
		Data store.AgentUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/agents/user/create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListAgentUsers(ctx context.Context, page, limit int, search string) (UserPage, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out UserPage
	err := c.do(ctx, http.MethodGet, "/agents/users", q, nil, &out)
	return out, err
}

func (c *Client) EditAgentUser(ctx context.Context, userID string, in AgentUserInput) (*store.AgentUser, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "required"}
	}
	var out struct {
		Data store.AgentUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/agents/users/"+userID, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UserFundTransaction moves coins between a sub-user and its owning agent:
// add funds the user from the agent's balance, remove returns funds to it.
func (c *Client) UserFundTransaction(ctx context.Context, userID string, typ store.TxnType, amount int64) (*FundResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "required"}
	}
	if err := validateFund(typ, amount); err != nil {
		return nil, err
	}
	body := map[string]any{"amount": amount, "type": typ}
	var out FundResult
	if err := c.do(ctx, http.MethodPut, "/agents/users/"+userID+"/fund", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
