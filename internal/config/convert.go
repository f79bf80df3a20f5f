package config

import (
	"time"

	"github.com/netsdr/client/internal/protocol/session"
)

// ToSessionConfig converts the parsed TOML settings into a session.Config,
// the shape the session package actually consumes. Kept separate from
// ClientConfig so the TOML-facing struct can evolve (human-readable
// durations, diagnostics block) without touching the session package.
func (c ClientConfig) ToSessionConfig() session.Config {
	return session.Config{
		ResponseTimeout: time.Duration(c.ResponseTimeout),
		SampleWidth:     c.SampleWidth,
		Backoff:         c.Backoff.ToSessionBackoff(),
	}
}

// ToSessionBackoff converts the TOML-facing BackoffConfig into
// session.BackoffConfig.
func (b BackoffConfig) ToSessionBackoff() session.BackoffConfig {
	return session.BackoffConfig{
		InitialDelay: time.Duration(b.InitialDelay),
		Multiplier:   b.Multiplier,
		MaxDelay:     time.Duration(b.MaxDelay),
		Jitter:       b.Jitter,
	}
}
