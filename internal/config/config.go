package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig describes the receiver endpoint, session timeouts, and
// default sample width for a netsdr client instance.
type ClientConfig struct {
	Name string `toml:"name"`
	Host string `toml:"host"`

	ControlPort int `toml:"control_port"`
	DataPort    int `toml:"data_port"`

	ConnectTimeout  Duration `toml:"connect_timeout"`
	ResponseTimeout Duration `toml:"response_timeout"`
	ReadTimeout     Duration `toml:"read_timeout"`

	SampleWidth int `toml:"sample_width"`

	Backoff BackoffConfig `toml:"backoff"`

	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// BackoffConfig mirrors session.BackoffConfig's shape for TOML
// deserialization; callers convert it with ToSessionBackoff.
type BackoffConfig struct {
	InitialDelay Duration `toml:"initial_delay"`
	Multiplier   float64  `toml:"multiplier"`
	MaxDelay     Duration `toml:"max_delay"`
	Jitter       bool     `toml:"jitter"`
}

// DiagnosticsConfig configures the optional HTTP diagnostics surface.
type DiagnosticsConfig struct {
	Enabled     bool     `toml:"enabled"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// Duration wraps time.Duration so TOML strings like "250ms" parse directly
// via UnmarshalText, matching how the receiver's ambient stack prefers
// human-readable durations in config files over raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultClientConfig returns the settings a client uses when a config file
// omits a field.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Name:            "netsdr-client",
		Host:            "127.0.0.1",
		ControlPort:     50000,
		DataPort:        50000,
		ConnectTimeout:  Duration(3 * time.Second),
		ResponseTimeout: Duration(2 * time.Second),
		ReadTimeout:     Duration(5 * time.Second),
		SampleWidth:     16,
		Backoff: BackoffConfig{
			InitialDelay: Duration(250 * time.Millisecond),
			Multiplier:   2.0,
			MaxDelay:     Duration(5 * time.Second),
			Jitter:       true,
		},
		Diagnostics: DiagnosticsConfig{
			Enabled: false,
			Addr:    ":9000",
		},
	}
}

// Load reads and parses a ClientConfig from path, filling unset fields from
// DefaultClientConfig and validating the result.
func Load(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate checks that cfg describes a usable client endpoint.
func Validate(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("config: host is required")
	}
	if cfg.ControlPort <= 0 || cfg.ControlPort > 65535 {
		return fmt.Errorf("config: control_port out of range: %d", cfg.ControlPort)
	}
	if cfg.DataPort <= 0 || cfg.DataPort > 65535 {
		return fmt.Errorf("config: data_port out of range: %d", cfg.DataPort)
	}
	if cfg.SampleWidth < 1 || cfg.SampleWidth > 32 {
		return fmt.Errorf("config: sample_width must be between 1 and 32, got %d", cfg.SampleWidth)
	}
	if cfg.Backoff.Multiplier <= 0 {
		return fmt.Errorf("config: backoff.multiplier must be positive")
	}
	return nil
}

// ControlAddr returns the dial address for the control transport.
func (c ClientConfig) ControlAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.ControlPort)
}

// DataAddr returns the listen address for the data transport.
func (c ClientConfig) DataAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.DataPort)
}
