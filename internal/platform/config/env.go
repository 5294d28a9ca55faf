// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration whose env tags are relative to prefix.
//
// A prefix of "STOREFRONT_" resolves a field tagged `env:"HTTP_ADDR"` from
// STOREFRONT_HTTP_ADDR.
func ParseEnvWithPrefix(target any, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ParseEnv(target)
	}
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env %s*: %w", prefix, err)
	}
	return nil
}
