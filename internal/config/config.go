package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds process-wide settings for the CLI and the HTTP server.
type Config struct {
	DBPath      string
	User        string
	HTTPAddr    string
	LogUseCases bool
	LogLevel    slog.Level
	Metrics     bool
	// CORSOrigins lists browser origins allowed to call the HTTP API. Empty
	// disables CORS handling.
	CORSOrigins []string
}

// DefaultConfig returns a Config with sensible defaults. Use-case logging is
// off by default; metrics are on.
func DefaultConfig() Config {
	return Config{
		DBPath:   defaultDBPath(),
		User:     os.Getenv("USER"),
		HTTPAddr: ":8080",
		LogLevel: slog.LevelInfo,
		Metrics:  true,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or unparsable values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BIENS_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BIENS_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("BIENS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("BIENS_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BIENS_LOG_LEVEL"); v != "" {
		if lvl, ok := parseLevel(v); ok {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv("BIENS_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics = b
		}
	}

	if v := os.Getenv("BIENS_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "biensperience.db"
	}
	return filepath.Join(home, ".biensperience", "biensperience.db")
}

func parseLevel(s string) (slog.Level, bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, false
	}
	return lvl, true
}
