// Package logging wraps github.com/rs/zerolog behind a package-level
// Debugf/Infof/Warnf/Errorf surface, configured once at process start.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "NETSDR_LOG_LEVEL"
	EnvLogTimestamp = "NETSDR_LOG_TIMESTAMP"
	EnvLogNoColor   = "NETSDR_LOG_NOCOLOR"
	EnvLogJSON      = "NETSDR_LOG_JSON"
)

// Profile selects the default level/format pair before env overrides.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var (
	configureOnce sync.Once
	logger        zerolog.Logger
)

// ConfigureRuntime configures the default runtime profile: info level,
// timestamps on, console-writer output.
func ConfigureRuntime() { Configure(ProfileRuntime) }

// ConfigureTests configures the test profile: debug level, no timestamps,
// so assertions on log output stay stable across runs.
func ConfigureTests() { Configure(ProfileTest) }

// Configure sets up the package logger exactly once; subsequent calls are
// no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		level, timestamp, jsonOutput, noColor := defaults(profile)
		applyEnvOverrides(&level, &timestamp, &jsonOutput, &noColor)

		zerolog.SetGlobalLevel(level)
		if jsonOutput {
			logger = zerolog.New(os.Stdout)
		} else {
			logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
				NoColor:    noColor,
			})
		}
		ctx := logger.With()
		if timestamp {
			ctx = ctx.Timestamp()
		}
		ctx = ctx.Str("app", "netsdr-client")
		logger = ctx.Logger()
	})
}

// L returns the configured logger, configuring the runtime default profile
// on first use if Configure was never called explicitly.
func L() zerolog.Logger {
	ConfigureRuntime()
	return logger
}

func defaults(profile Profile) (level zerolog.Level, timestamp, jsonOutput, noColor bool) {
	switch profile {
	case ProfileTest:
		return zerolog.DebugLevel, false, false, true
	default:
		return zerolog.InfoLevel, true, false, false
	}
}

func applyEnvOverrides(level *zerolog.Level, timestamp, jsonOutput, noColor *bool) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		*level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		*timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		*jsonOutput = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		*noColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func Debugf(format string, args ...any) { l := L(); l.Debug().Msgf(format, args...) }
func Infof(format string, args ...any)  { l := L(); l.Info().Msgf(format, args...) }
func Warnf(format string, args ...any)  { l := L(); l.Warn().Msgf(format, args...) }
func Errorf(format string, args ...any) { l := L(); l.Error().Msgf(format, args...) }
