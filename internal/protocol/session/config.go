package session

import "time"

// BackoffConfig defines retry backoff behavior for a caller-driven
// reconnect loop. The session itself never retries a dropped connection
// (automatic reconnect is out of scope); this is exposed for a caller that
// wants to wrap Connect in its own retry loop using NextBackoffDelay.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines session timeouts and the default sample width used to
// interpret data-frame bodies.
type Config struct {
	// ResponseTimeout bounds how long a control request waits for its
	// matching reply before failing with ErrTimeout.
	ResponseTimeout time.Duration
	// SampleWidth is the bit width (1-32) used to hand off data-frame
	// bodies to the sample unpacker.
	SampleWidth int
	Backoff     BackoffConfig
}

// DefaultConfig returns the session's default timeouts.
func DefaultConfig() Config {
	return Config{
		ResponseTimeout: 2 * time.Second,
		SampleWidth:     16,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills a non-positive ResponseTimeout and a zero SampleWidth
// with DefaultConfig's values, and replaces Backoff as a whole with the
// default when its InitialDelay is not positive. Other zero Backoff fields
// are kept as given.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = def.ResponseTimeout
	}
	if c.SampleWidth == 0 {
		c.SampleWidth = def.SampleWidth
	}
	if c.Backoff.InitialDelay <= 0 {
		c.Backoff = def.Backoff
	}
	return c
}
