package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agent-funds/internal/collection"
	"agent-funds/internal/config"
	"agent-funds/internal/ledger"
	"agent-funds/internal/sessionmode"
	"agent-funds/internal/store"
	httptransport "agent-funds/internal/transport/http"
)

func newTestClient(t *testing.T, cfg config.ServerConfig, opts ...Option) (*Client, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	srv := httptest.NewServer(httptransport.NewRouter(st, cfg))
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...), st
}

func mustAgent(t *testing.T, c *Client, balance int64) *store.Agent {
	t.Helper()
	agent, err := c.CreateAgent(context.Background(), AgentInput{
		Name:           "Agent",
		Mobile:         "9000000001",
		CoinsBalance:   balance,
		CoinPercentage: 100,
	})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func mustUser(t *testing.T, c *Client, agentID string, balance int64) *store.AgentUser {
	t.Helper()
	user, err := c.CreateAgentUser(context.Background(), AgentUserInput{
		AgentID:          agentID,
		Name:             "User",
		Phone:            "9000000002",
		AvailableBalance: balance,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestAgentLifecycle(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{})
	ctx := context.Background()

	agent := mustAgent(t, c, 1000)
	if agent.ID == "" || agent.CoinsBalance != 1000 {
		t.Fatalf("created agent = %+v", agent)
	}

	page, err := c.ListAgents(ctx, 1, 10, "agent")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 1 || page.Pagination.Total != 1 {
		t.Fatalf("page = %+v", page)
	}

	edited, err := c.EditAgent(ctx, agent.ID, AgentInput{Name: "Renamed", CoinPercentage: 40})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Name != "Renamed" || edited.CoinPercentage != 40 {
		t.Fatalf("edited = %+v", edited)
	}
}

func TestValidationShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request reached the server: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	var verr *ValidationError
	cases := []struct {
		name string
		call func() error
	}{
		{"agent name required", func() error { _, err := c.CreateAgent(ctx, AgentInput{}); return err }},
		{"negative balance", func() error {
			_, err := c.CreateAgent(ctx, AgentInput{Name: "A", CoinsBalance: -1})
			return err
		}},
		{"user name required", func() error { _, err := c.CreateAgentUser(ctx, AgentUserInput{AgentID: "a"}); return err }},
		{"fund amount positive", func() error {
			_, err := c.UserFundTransaction(ctx, "u", store.TxnAdd, 0)
			return err
		}},
		{"fund type known", func() error {
			_, err := c.UserFundTransaction(ctx, "u", store.TxnType("transfer"), 10)
			return err
		}},
		{"history user required", func() error { _, err := c.UserTransactionHistory(ctx, "", 1, 10); return err }},
		{"game required", func() error { _, err := c.GetSessionMode(ctx, ""); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestUserFundFlow(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{})
	ctx := context.Background()
	agent := mustAgent(t, c, 1000)
	user := mustUser(t, c, agent.ID, 0)

	res, err := c.UserFundTransaction(ctx, user.ID, store.TxnAdd, 200)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if res.User == nil || res.User.AvailableBalance != 200 {
		t.Fatalf("user = %+v", res.User)
	}
	if res.Agent == nil || res.Agent.CoinsBalance != 800 {
		t.Fatalf("agent = %+v", res.Agent)
	}
	if res.Transaction == nil || *res.Transaction.UserBalanceAfter != 200 {
		t.Fatalf("transaction = %+v", res.Transaction)
	}

	history, err := c.UserTransactionHistory(ctx, user.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Total != 1 || history.TotalPages != 1 || len(history.Transactions) != 1 {
		t.Fatalf("history = %+v", history)
	}

	all, err := c.TransactionHistory(ctx, HistoryQuery{Type: store.TxnAdd})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if all.Total != 1 {
		t.Fatalf("filtered history total = %d", all.Total)
	}
}

func TestTransportErrorMapping(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{})
	ctx := context.Background()
	agent := mustAgent(t, c, 10)
	user := mustUser(t, c, agent.ID, 0)

	_, err := c.UserFundTransaction(ctx, user.ID, store.TxnAdd, 500)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if terr.Status != http.StatusBadRequest || terr.Code != "insufficient_balance" {
		t.Fatalf("transport error = %+v", terr)
	}

	_, err = c.UserFundTransaction(ctx, "missing", store.TxnAdd, 10)
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if terr.Status != http.StatusNotFound || terr.Code != "unknown_subject" {
		t.Fatalf("transport error = %+v", terr)
	}
}

func TestBearerTokenInjection(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{AuthToken: "secret"})
	ctx := context.Background()

	_, err := c.ListAgents(ctx, 1, 10, "")
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Status != http.StatusUnauthorized {
		t.Fatalf("anonymous err = %v, want 401 TransportError", err)
	}

	st := store.NewMemStore()
	srv := httptest.NewServer(httptransport.NewRouter(st, config.ServerConfig{AuthToken: "secret"}))
	defer srv.Close()
	authed := New(srv.URL, WithTokenSource(StaticToken("secret")))
	if _, err := authed.ListAgents(ctx, 1, 10, ""); err != nil {
		t.Fatalf("authed list: %v", err)
	}
}

func TestSessionModeThroughController(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{})
	ctrl := sessionmode.NewController(c)
	ctx := context.Background()

	st, err := ctrl.Get(ctx, "dragon-tiger")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Mode != sessionmode.ModeAutomatic {
		t.Fatalf("server default mode = %q", st.Mode)
	}

	st, err = ctrl.Set(ctx, "dragon-tiger", sessionmode.ModeManual)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if st.Mode != sessionmode.ModeManual {
		t.Fatalf("mode after set = %q", st.Mode)
	}

	mode, err := c.GetSessionMode(ctx, "dragon-tiger")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if mode != sessionmode.ModeManual {
		t.Fatalf("persisted mode = %q", mode)
	}
}

func TestGameStats(t *testing.T) {
	c, st := newTestClient(t, config.ServerConfig{})
	ctx := context.Background()
	now := time.Now().UTC()
	st.InsertGameSession(ctx, &store.GameSession{Game: "dragon-tiger", Mode: "automatic", TotalBetAmount: 100, TotalWinningAmount: 30, StartedAt: now})
	st.InsertGameSession(ctx, &store.GameSession{Game: "dragon-tiger", Mode: "manual", TotalBetAmount: 50, TotalWinningAmount: 20, StartedAt: now})

	stats, err := c.GameSessionStats(ctx, "dragon-tiger", 1, 10, "")
	if err != nil {
		t.Fatalf("session stats: %v", err)
	}
	if stats.TotalSessions != 2 || len(stats.Sessions) != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	daily, err := c.GameDailyStats(ctx, "dragon-tiger", now.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if daily.TotalBetAmount != 150 || daily.TotalWinningAmount != 50 {
		t.Fatalf("daily = %+v", daily)
	}
}

func waitCollectionIdle[T any](t *testing.T, s *collection.Store[T], key string) collection.PagedCollection[T] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := s.Observe(key); snap.State != collection.StateLoading {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("collection %q never left loading", key)
	return collection.PagedCollection[T]{}
}

func TestCollectionsTrackLedger(t *testing.T) {
	c, _ := newTestClient(t, config.ServerConfig{})
	ctx := context.Background()
	agent := mustAgent(t, c, 1000)
	user := mustUser(t, c, agent.ID, 0)

	cols := NewCollections(c)
	cols.Users.Request(ctx, ledger.KeyAgentUsers, collection.Query{Page: 1, Limit: 10})
	snap := waitCollectionIdle(t, cols.Users, ledger.KeyAgentUsers)
	if len(snap.Items) != 1 || snap.Items[0].AvailableBalance != 0 {
		t.Fatalf("initial users = %+v", snap.Items)
	}

	if _, err := c.UserFundTransaction(ctx, user.ID, store.TxnAdd, 200); err != nil {
		t.Fatalf("fund: %v", err)
	}

	// The refresh signal a local engine would emit after the commit.
	cols.CollectionsChanged(ledger.KeyAgentUsers, ledger.KeyUserTransactions(user.ID))

	snap = waitCollectionIdle(t, cols.Users, ledger.KeyAgentUsers)
	if snap.Items[0].AvailableBalance != 200 {
		t.Fatalf("user balance after refresh = %d, want 200", snap.Items[0].AvailableBalance)
	}

	key := ledger.KeyUserTransactions(user.ID)
	cols.Transactions.Request(ctx, key, collection.Query{Page: 1, Limit: 10})
	txSnap := waitCollectionIdle(t, cols.Transactions, key)
	if len(txSnap.Items) != 1 || txSnap.Items[0].Amount != 200 {
		t.Fatalf("user transactions = %+v", txSnap.Items)
	}
}
