// Package config loads salvo settings: defaults, then an optional YAML (or JSON)
// file, then SALVO_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"svw.info/salvo/internal/solver"
)

type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	// RatePerSecond and Burst throttle the estimation routes; 0 disables throttling.
	RatePerSecond float64 `json:"ratePerSecond" yaml:"ratePerSecond"`
	Burst         int     `json:"burst" yaml:"burst"`
}

type SearchConfig struct {
	Budget    solver.Budget `json:"budget" yaml:"budget"`
	HitWeight float64       `json:"hitWeight" yaml:"hitWeight"`
	// Seed fixes the joint search shuffles; 0 seeds from the runtime.
	Seed uint64 `json:"seed" yaml:"seed"`
}

type StorageConfig struct {
	// Driver is "fs" or "badger".
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path" yaml:"path"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RatePerSecond:   20,
			Burst:           40,
		},
		Search: SearchConfig{
			Budget:    solver.DefaultBudget(),
			HitWeight: 3,
		},
		Storage: StorageConfig{Driver: "fs", Path: "./data"},
		Log:     LogConfig{Level: "info", Format: "auto"},
	}
}

var errInvalid = errors.New("invalid config")

// Validate checks config values for sanity.
func (c Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr must be set")
	}
	if c.Server.RatePerSecond < 0 || c.Server.Burst < 0 {
		problems = append(problems, "server rate limits must be non-negative")
	}
	if c.Server.RatePerSecond > 0 && c.Server.Burst < 1 {
		problems = append(problems, "server.burst must be at least 1 when rate limiting")
	}
	b := c.Search.Budget
	if b.GlobalCeiling < 0 || b.RootCeiling < 0 || b.LengthBase < 0 || b.LengthStep < 0 || b.TriesAfterCutoff < 0 || b.NodeCeiling < 0 {
		problems = append(problems, "search.budget values must be non-negative")
	}
	if c.Search.HitWeight <= 0 {
		problems = append(problems, "search.hitWeight must be positive")
	}
	switch c.Storage.Driver {
	case "fs", "badger":
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q is not fs or badger", c.Storage.Driver))
	}
	if c.Storage.Path == "" {
		problems = append(problems, "storage.path must be set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is unknown", c.Log.Level))
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not auto, text or json", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Load builds the effective config. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}
	float := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("SALVO_ADDR", &cfg.Server.Addr)
	duration("SALVO_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	duration("SALVO_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	duration("SALVO_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	float("SALVO_RATE_PER_SECOND", &cfg.Server.RatePerSecond)
	integer("SALVO_BURST", &cfg.Server.Burst)

	integer("SALVO_GLOBAL_CEILING", &cfg.Search.Budget.GlobalCeiling)
	integer("SALVO_ROOT_CEILING", &cfg.Search.Budget.RootCeiling)
	integer("SALVO_NODE_CEILING", &cfg.Search.Budget.NodeCeiling)
	float("SALVO_HIT_WEIGHT", &cfg.Search.HitWeight)
	if v := os.Getenv("SALVO_SEED"); v != "" {
		if s, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Search.Seed = s
		}
	}

	str("SALVO_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("SALVO_STORAGE_PATH", &cfg.Storage.Path)
	str("SALVO_LOG_LEVEL", &cfg.Log.Level)
	str("SALVO_LOG_FORMAT", &cfg.Log.Format)
}
