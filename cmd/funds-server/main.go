package main

import (
	"context"
	"net/http"
	"time"

	"agent-funds/internal/config"
	"agent-funds/internal/logging"
	"agent-funds/internal/store"
	httptransport "agent-funds/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := openStore(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("store ping failed")
	}

	if cfg.Server.SeedDemo {
		seedDemo(st, cfg.Server.SeedAgentBalance)
	}

	r := httptransport.NewRouter(st, cfg.Server)
	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func openStore(cfg config.ServerConfig) (store.Store, error) {
	if cfg.PostgresDSN != "" {
		log.Info().Msg("using postgres store")
		return store.NewPGStore(cfg.PostgresDSN)
	}
	log.Info().Msg("using in-memory store")
	return store.NewMemStore(), nil
}

// seedDemo creates one agent with a funded balance and a couple of sub-users
// so a fresh server has something to list.
func seedDemo(st store.Store, balance int64) {
	ctx := context.Background()
	agentID, err := st.CreateAgent(ctx, &store.Agent{
		Name:           "Demo Agent",
		Mobile:         "5550100",
		Email:          "demo@example.com",
		CoinsBalance:   balance,
		CoinPercentage: 100,
		Status:         store.AgentActive,
	})
	if err != nil {
		log.Warn().Err(err).Msg("seed agent failed")
		return
	}
	for _, name := range []string{"alice", "bob"} {
		if _, err := st.CreateAgentUser(ctx, &store.AgentUser{
			AgentID: agentID,
			Name:    name,
			Status:  true,
		}); err != nil {
			log.Warn().Err(err).Str("user", name).Msg("seed user failed")
		}
	}
	log.Info().Str("agent_id", agentID).Msg("seeded demo data")
}
