package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN selects the postgres store; empty means in-memory.
	PostgresDSN string `env:"POSTGRES_DSN"`

	AuthToken string `env:"AUTH_TOKEN"`

	SeedDemo         bool  `env:"SEED_DEMO" envDefault:"false"`
	SeedAgentBalance int64 `env:"SEED_AGENT_BALANCE" envDefault:"100000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
