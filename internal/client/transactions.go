package client

import (
	"context"
	"net/http"

	"agent-funds/internal/store"
)

func (c *Client) TransactionHistory(ctx context.Context, q HistoryQuery) (TransactionPage, error) {
	params := pageQuery(q.Page, q.Limit)
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.UserID != "" {
		params.Set("userId", q.UserID)
	}
	if q.UserName != "" {
		params.Set("userName", q.UserName)
	}
	var out struct {
		Transactions []store.Transaction `json:"transactions"`
		Page         int                 `json:"page"`
		Total        int                 `json:"total"`
		Pages        int                 `json:"pages"`
	}
	if err := c.do(ctx, http.MethodGet, "/agents/transactions/history", params, nil, &out); err != nil {
		return TransactionPage{}, err
	}
	return TransactionPage{
		Transactions: out.Transactions,
		Page:         out.Page,
		Total:        out.Total,
		TotalPages:   out.Pages,
	}, nil
}

func (c *Client) UserTransactionHistory(ctx context.Context, userID string, page, limit int) (TransactionPage, error) {
	if userID == "" {
		return TransactionPage{}, &ValidationError{Field: "user_id", Reason: "required"}
	}
	var out struct {
		Transactions []store.Transaction `json:"transactions"`
		Page         int                 `json:"page"`
		Total        int                 `json:"total"`
		TotalPages   int                 `json:"totalPages"`
	}
	err := c.do(ctx, http.MethodGet, "/agents/user/"+userID+"/transactions", pageQuery(page, limit), nil, &out)
	if err != nil {
		return TransactionPage{}, err
	}
	return TransactionPage{
		Transactions: out.Transactions,
		Page:         out.Page,
		Total:        out.Total,
		TotalPages:   out.TotalPages,
	}, nil
}
