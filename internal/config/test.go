package config

import "github.com/caarlos0/env/v11"

// TestConfig holds the knobs the store integration tests need. Loading fails
// when the DSN is absent, which the test helper turns into a skip.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
