// funds-probe drives the client SDK against a running funds-server: it
// creates an agent and a sub-user, moves coins both ways, and walks the
// paginated views. Useful as a smoke check after deployments.
package main

import (
	"context"
	"time"

	"agent-funds/internal/client"
	"agent-funds/internal/collection"
	"agent-funds/internal/config"
	"agent-funds/internal/ledger"
	"agent-funds/internal/logging"
	"agent-funds/internal/sessionmode"
	"agent-funds/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("load client config failed")
	}

	api := client.FromConfig(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	agent, err := api.CreateAgent(ctx, client.AgentInput{
		Name:           "probe-agent",
		Mobile:         "5550199",
		Email:          "probe@example.com",
		CoinsBalance:   1000,
		CoinPercentage: 100,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create agent failed")
	}
	log.Info().Str("agent_id", agent.ID).Int64("balance", agent.CoinsBalance).Msg("agent created")

	user, err := api.CreateAgentUser(ctx, client.AgentUserInput{
		AgentID: agent.ID,
		Name:    "probe-user",
		Phone:   "5550198",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create user failed")
	}

	result, err := api.UserFundTransaction(ctx, user.ID, store.TxnAdd, 200)
	if err != nil {
		log.Fatal().Err(err).Msg("user fund add failed")
	}
	log.Info().
		Int64("user_balance", result.User.AvailableBalance).
		Int64("agent_balance", result.Agent.CoinsBalance).
		Msg("fund applied")

	// The fund operation invalidates the user list and the histories; walk
	// them through the collection stores the way a dashboard would.
	cols := client.NewCollections(api)
	cols.Users.Request(ctx, ledger.KeyAgentUsers, collection.Query{Page: 1, Limit: 10, Filter: "probe"})
	cols.Transactions.Request(ctx, ledger.KeyTransactions, collection.Query{Page: 1, Limit: 10})
	waitIdle := func(observe func() collection.RequestState) {
		deadline := time.Now().Add(10 * time.Second)
		for observe() == collection.StateLoading && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
	}
	waitIdle(func() collection.RequestState { return cols.Users.Observe(ledger.KeyAgentUsers).State })
	waitIdle(func() collection.RequestState { return cols.Transactions.Observe(ledger.KeyTransactions).State })
	users := cols.Users.Observe(ledger.KeyAgentUsers)
	txns := cols.Transactions.Observe(ledger.KeyTransactions)
	log.Info().Int("users", len(users.Items)).Int("user_total", users.Total).Msg("user collection")
	log.Info().Int("transactions", len(txns.Items)).Int("txn_total", txns.Total).Msg("transaction collection")

	modes := sessionmode.NewController(api)
	status, err := modes.Set(ctx, "dragon-tiger", sessionmode.ModeManual)
	if err != nil {
		log.Fatal().Err(err).Msg("set session mode failed")
	}
	log.Info().Str("mode", string(status.Mode)).Msg("session mode set")

	log.Info().Msg("probe complete")
}
