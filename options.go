// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"errors"
	"log/slog"
)

// Config holds the settings shared by the converter and the evaluator.
type Config struct {
	name   string
	logger *slog.Logger
}

type Option func(c *Config) error

// WithName sets the source name used in log messages.
func WithName(name string) Option {
	return func(c *Config) error {
		c.name = name
		return nil
	}
}

// WithLogger sets the logger for debug traces. A nil logger disables them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

func newConfig(options []Option) (*Config, error) {
	c := &Config{name: "<expr>"}
	for _, option := range options {
		if option == nil {
			return nil, errors.New("nil option")
		}
		if err := option(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
