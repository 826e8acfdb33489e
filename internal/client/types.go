package client

import "agent-funds/internal/store"

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type AgentPage struct {
	Data       []store.Agent `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

type UserPage struct {
	Users      []store.AgentUser `json:"users"`
	Pagination Pagination        `json:"pagination"`
}

type TransactionPage struct {
	Transactions []store.Transaction
	Page         int
	Total        int
	TotalPages   int
}

type SessionStatsPage struct {
	Sessions      []store.GameSession `json:"sessions"`
	CurrentPage   int                 `json:"currentPage"`
	TotalPages    int                 `json:"totalPages"`
	TotalSessions int                 `json:"totalSessions"`
}

// FundResult is the reconciled outcome of a fund transaction: the refreshed
// party snapshots plus the appended ledger record.
type FundResult struct {
	Message     string             `json:"message"`
	Agent       *store.Agent       `json:"agent,omitempty"`
	User        *store.AgentUser   `json:"user,omitempty"`
	Transaction *store.Transaction `json:"transaction,omitempty"`
}

type AgentInput struct {
	Name           string            `json:"name"`
	Mobile         string            `json:"mobile"`
	Email          string            `json:"email"`
	CoinsBalance   int64             `json:"coins_balance"`
	CoinPercentage int               `json:"coin_percentage"`
	CoinRefundable bool              `json:"coin_refundable"`
	Status         store.AgentStatus `json:"status,omitempty"`
}

type AgentUserInput struct {
	AgentID          string `json:"agent_id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	AvailableBalance int64  `json:"availableBalance"`
	Status           bool   `json:"status"`
}

type HistoryQuery struct {
	Page     int
	Limit    int
	Type     store.TxnType
	UserID   string
	UserName string
}
