package client

import (
	"context"
	"strings"

	"agent-funds/internal/collection"
	"agent-funds/internal/ledger"
	"agent-funds/internal/store"
)

const KeyGameSessionsPrefix = "gameSessions:"

func KeyGameSessions(game string) string {
	return KeyGameSessionsPrefix + game
}

// Collections binds the client's list endpoints into paged collection stores,
// one per logical collection family. The free-text filter maps to whatever
// the endpoint searches on: agent search, user search, transaction userName,
// or session searchText.
type Collections struct {
	Agents       *collection.Store[store.Agent]
	Users        *collection.Store[store.AgentUser]
	Transactions *collection.Store[store.Transaction]
	Sessions     *collection.Store[store.GameSession]
}

func NewCollections(c *Client) *Collections {
	return &Collections{
		Agents: collection.New(func(ctx context.Context, _ string, q collection.Query) (collection.Page[store.Agent], error) {
			page, err := c.ListAgents(ctx, q.Page, q.Limit, q.Filter)
			if err != nil {
				return collection.Page[store.Agent]{}, err
			}
			return collection.Page[store.Agent]{
				Items: page.Data,
				Page:  page.Pagination.Page,
				Limit: page.Pagination.Limit,
				Total: page.Pagination.Total,
			}, nil
		}),
		Users: collection.New(func(ctx context.Context, _ string, q collection.Query) (collection.Page[store.AgentUser], error) {
			page, err := c.ListAgentUsers(ctx, q.Page, q.Limit, q.Filter)
			if err != nil {
				return collection.Page[store.AgentUser]{}, err
			}
			return collection.Page[store.AgentUser]{
				Items: page.Users,
				Page:  page.Pagination.Page,
				Limit: page.Pagination.Limit,
				Total: page.Pagination.Total,
			}, nil
		}),
		Transactions: collection.New(func(ctx context.Context, key string, q collection.Query) (collection.Page[store.Transaction], error) {
			var page TransactionPage
			var err error
			if userID, ok := strings.CutPrefix(key, ledger.KeyUserTransactionsPrefix); ok {
				page, err = c.UserTransactionHistory(ctx, userID, q.Page, q.Limit)
			} else {
				page, err = c.TransactionHistory(ctx, HistoryQuery{
					Page:     q.Page,
					Limit:    q.Limit,
					UserName: q.Filter,
				})
			}
			if err != nil {
				return collection.Page[store.Transaction]{}, err
			}
			return collection.Page[store.Transaction]{
				Items: page.Transactions,
				Page:  page.Page,
				Limit: q.Limit,
				Total: page.Total,
			}, nil
		}),
		Sessions: collection.New(func(ctx context.Context, key string, q collection.Query) (collection.Page[store.GameSession], error) {
			game := strings.TrimPrefix(key, KeyGameSessionsPrefix)
			page, err := c.GameSessionStats(ctx, game, q.Page, q.Limit, q.Filter)
			if err != nil {
				return collection.Page[store.GameSession]{}, err
			}
			return collection.Page[store.GameSession]{
				Items: page.Sessions,
				Page:  page.CurrentPage,
				Limit: q.Limit,
				Total: page.TotalSessions,
			}, nil
		}),
	}
}

// CollectionsChanged implements ledger.Notifier: a committed fund transaction
// re-fetches the collections it touched, using each key's last query.
func (cols *Collections) CollectionsChanged(keys ...string) {
	ctx := context.Background()
	for _, key := range keys {
		switch {
		case key == ledger.KeyAgents:
			cols.Agents.Refresh(ctx, key)
		case key == ledger.KeyAgentUsers:
			cols.Users.Refresh(ctx, key)
		case key == ledger.KeyTransactions,
			strings.HasPrefix(key, ledger.KeyUserTransactionsPrefix):
			cols.Transactions.Refresh(ctx, key)
		case strings.HasPrefix(key, KeyGameSessionsPrefix):
			cols.Sessions.Refresh(ctx, key)
		}
	}
}
