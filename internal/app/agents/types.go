package agents

import "agent-funds/internal/store"

type CreateAgentInput struct {
	Name           string
	Mobile         string
	Email          string
	CoinsBalance   int64
	CoinPercentage int
	CoinRefundable bool
}

type EditAgentInput struct {
	Name           *string
	Mobile         *string
	Email          *string
	CoinPercentage *int
	CoinRefundable *bool
	Status         *store.AgentStatus
}

type CreateUserInput struct {
	AgentID          string
	Name             string
	Phone            string
	AvailableBalance int64
}

type EditUserInput struct {
	Name   *string
	Phone  *string
	Status *bool
}

type FundInput struct {
	Type      store.TxnType
	Amount    int64
	CreatedBy string
}

// FundOutcome carries the refreshed balances alongside the appended record so
// handlers can answer with post-transaction snapshots in one round trip.
type FundOutcome struct {
	Agent       *store.Agent
	User        *store.AgentUser
	Transaction *store.Transaction
}
