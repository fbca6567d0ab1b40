// Package config holds the service configuration: a JSON file layered over defaults,
// with command-line flags applied on top by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Addr string `json:"addr"`

	SearchDepth     int    `json:"search_depth"`
	QuiescenceDepth int    `json:"quiescence_depth"`
	OrderingDepth   int    `json:"ordering_depth"`
	DrawScore       int32  `json:"draw_score"`
	SearchTimeoutMs int    `json:"search_timeout_ms"`
	MaxNodes        uint64 `json:"max_nodes"`

	BookEnabled bool   `json:"book_enabled"`
	BookPath    string `json:"book_path"`
	BookDelayMs int    `json:"book_delay_ms"`

	MaxConcurrentSearches int `json:"max_concurrent_searches"`

	LogLevel  string `json:"log_level"`
	LogPretty bool   `json:"log_pretty"`
}

const maxSearchDepth = 32

func Default() Config {
	return Config{
		Addr: ":8887",

		SearchDepth:     3,
		QuiescenceDepth: 32,
		OrderingDepth:   1, // two-ply ordering at the root only
		DrawScore:       0,
		SearchTimeoutMs: 10000,
		MaxNodes:        0, // unlimited

		BookEnabled: true,
		BookPath:    "", // embedded book
		BookDelayMs: 0,

		MaxConcurrentSearches: runtime.NumCPU(),

		LogLevel: "info",
	}
}

// Load reads path over the defaults. Fields missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.SearchDepth < 1 || c.SearchDepth > maxSearchDepth {
		errs = append(errs, fmt.Errorf("search_depth %d out of range [1, %d]", c.SearchDepth, maxSearchDepth))
	}
	if c.QuiescenceDepth < 1 {
		errs = append(errs, fmt.Errorf("quiescence_depth %d must be positive", c.QuiescenceDepth))
	}
	if c.OrderingDepth < 1 {
		errs = append(errs, fmt.Errorf("ordering_depth %d must be positive", c.OrderingDepth))
	}
	if c.SearchTimeoutMs < 0 || c.BookDelayMs < 0 {
		errs = append(errs, errors.New("timeouts and delays must not be negative"))
	}
	if c.MaxConcurrentSearches < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_searches %d must be positive", c.MaxConcurrentSearches))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMs) * time.Millisecond
}

func (c Config) BookDelay() time.Duration {
	return time.Duration(c.BookDelayMs) * time.Millisecond
}

// Level is the parsed log level; invalid names fall back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
