package store

import "time"

type AgentStatus string

const (
	AgentActive   AgentStatus = "Active"
	AgentInactive AgentStatus = "Inactive"
)

type TxnType string

const (
	TxnAdd    TxnType = "add"
	TxnRemove TxnType = "remove"
)

// Agent holds a coin balance and manages a set of sub-users. Balances are
// whole coins; only fund transactions may change them.
type Agent struct {
	ID             string      `json:"agent_id"`
	Name           string      `json:"name"`
	Mobile         string      `json:"mobile"`
	Email          string      `json:"email"`
	CoinsBalance   int64       `json:"coins_balance"`
	CoinPercentage int         `json:"coin_percentage"`
	CoinRefundable bool        `json:"coin_refundable"`
	Status         AgentStatus `json:"status"`
	TotalUsers     int         `json:"total_users"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type AgentUser struct {
	ID               string     `json:"_id"`
	AgentID          string     `json:"agent_id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	AvailableBalance int64      `json:"availableBalance"`
	Status           bool       `json:"status"`
	LastLoginTime    *time.Time `json:"lastLoginTime,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Transaction is an immutable ledger entry. UserID is nil for agent-self
// operations, in which case the user snapshots are nil as well.
type Transaction struct {
	ID                 string    `json:"_id"`
	AgentID            string    `json:"agentId"`
	Type               TxnType   `json:"type"`
	Amount             int64     `json:"amount"`
	UserID             *string   `json:"userId"`
	UserName           string    `json:"userName,omitempty"`
	CreatedBy          string    `json:"createdBy"`
	UserBalanceBefore  *int64    `json:"userBalanceBefore,omitempty"`
	UserBalanceAfter   *int64    `json:"userBalanceAfter,omitempty"`
	AgentBalanceBefore int64     `json:"agentBalanceBefore"`
	AgentBalanceAfter  int64     `json:"agentBalanceAfter"`
	CreatedAt          time.Time `json:"createdAt"`
}

type GameSession struct {
	ID                 string     `json:"sessionId"`
	Game               string     `json:"game"`
	Mode               string     `json:"mode"`
	TotalBets          int        `json:"totalBets"`
	TotalBetAmount     int64      `json:"totalBetAmount"`
	TotalWinningAmount int64      `json:"totalWinningAmount"`
	StartedAt          time.Time  `json:"startedAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
}

type DailyStats struct {
	Date               string `json:"date"`
	TotalBetAmount     int64  `json:"totalBetAmount"`
	TotalWinningAmount int64  `json:"totalWinningAmount"`
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
	// AgentID restricts user listings to one owning agent; empty means all.
	AgentID string
}

type TransactionFilter struct {
	Type     TxnType
	UserID   string
	UserName string
}
