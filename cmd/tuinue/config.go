package main

import (
	"fmt"

	"tuinue/pkg/types"

	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.SessionTokenSecret == "" {
		return nil, fmt.Errorf("set SESSION_TOKEN_SECRET")
	}

	return c, nil
}
