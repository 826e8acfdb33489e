package config

import "github.com/caarlos0/env/v11"

type ClientConfig struct {
	BaseURL     string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	AuthToken   string `env:"API_AUTH_TOKEN" envDefault:""`
	TimeoutSecs int    `env:"API_TIMEOUT_SECONDS" envDefault:"10"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
