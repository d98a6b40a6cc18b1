// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr       string `env:"JQ_ADDR" envDefault:":8080"`
	DataDir    string `env:"JQ_DATA_DIR" envDefault:"data"`
	LedgerPath string `env:"JQ_LEDGER_PATH" envDefault:"data/receipts.db"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
