package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server holds configuration for the HTTP binding.
type Server struct {
	Addr   string `env:"CLOCKWORK_ADDR" envDefault:":8080"`
	DBPath string `env:"CLOCKWORK_DB"`
}

// ParseServer loads server configuration from environment variables.
func ParseServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
