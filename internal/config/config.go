// Package config loads server and engine settings from a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidConfig indicates a setting that could not be parsed or is out of
// range.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultPort          = 3000
	DefaultSearchDepth   = 4
	MaxSearchDepth       = 8
	DefaultLogLevel      = "info"
	DefaultAllowedOrigin = "http://localhost:5173"
)

// Config holds everything the server and CLI need.
type Config struct {
	Port           int
	AllowedOrigins []string
	SearchDepth    int
	SearchWorkers  int
	LogLevel       zerolog.Level
	LogPretty      bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:           DefaultPort,
		AllowedOrigins: []string{DefaultAllowedOrigin},
		SearchDepth:    DefaultSearchDepth,
		SearchWorkers:  runtime.NumCPU(),
		LogLevel:       zerolog.InfoLevel,
		LogPretty:      true,
	}
}

// Load reads .env from the working directory when present; its values take
// precedence over the process environment.
func Load() (Config, error) {
	env, err := godotenv.Read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
		env = map[string]string{}
	}
	return FromMap(env, os.Getenv)
}

// FromMap builds a Config from env, falling back to lookup for missing keys
// and to defaults for keys nobody sets.
func FromMap(env map[string]string, lookup func(string) string) (Config, error) {
	get := func(key string) string {
		if v, ok := env[key]; ok {
			return v
		}
		if lookup != nil {
			return lookup(key)
		}
		return ""
	}

	cfg := Default()
	var err error

	if v := get("CHECKERS_PORT"); v != "" {
		if cfg.Port, err = parseInt("CHECKERS_PORT", v, 1, 65535); err != nil {
			return Config{}, err
		}
	}
	if v := get("CHECKERS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := get("CHECKERS_SEARCH_DEPTH"); v != "" {
		if cfg.SearchDepth, err = parseInt("CHECKERS_SEARCH_DEPTH", v, 1, MaxSearchDepth); err != nil {
			return Config{}, err
		}
	}
	if v := get("CHECKERS_SEARCH_WORKERS"); v != "" {
		if cfg.SearchWorkers, err = parseInt("CHECKERS_SEARCH_WORKERS", v, 1, 1024); err != nil {
			return Config{}, err
		}
	}
	if v := get("CHECKERS_LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(v)); err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_LOG_LEVEL %q", ErrInvalidConfig, v)
		}
	}
	if v := get("CHECKERS_LOG_PRETTY"); v != "" {
		if cfg.LogPretty, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%w: CHECKERS_LOG_PRETTY %q", ErrInvalidConfig, v)
		}
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func parseInt(key, v string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidConfig, key, v)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidConfig, key, lo, hi, n)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
