// Package config loads the optional .turing.yaml file of the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".turing.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	Interval        time.Duration `mapstructure:"interval"`
	HaltState       domain.State  `mapstructure:"halt_state"`
	MaxSteps        uint64        `mapstructure:"max_steps"`
	CheckpointEvery uint64        `mapstructure:"checkpoint_every"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	Store           string        `mapstructure:"store"`
	Redis           Redis         `mapstructure:"redis"`
	HTTP            HTTP          `mapstructure:"http"`
}

// Redis configures the redis snapshot store.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Interval:        300 * time.Millisecond,
		HaltState:       domain.DefaultHaltState,
		CheckpointEvery: 1000,
		LogLevel:        "info",
		Store:           StoreMemory,
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "turing:session:",
		},
		HTTP: HTTP{
			Addr: ":8080",
		},
	}
}

// Load reads the file at path over the defaults. An empty path means
// DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that decode fine but make no sense.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StoreRedis)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative, got %s", c.Redis.TTL)
	}
	return nil
}
