// Package config loads tzinfo settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tzif/internal/logging"
	"github.com/ngrash/go-tzif/tz"
)

// DefaultSource is the system time zone database.
const DefaultSource = "/usr/share/zoneinfo"

// Config holds the settings of the tzinfo command.
type Config struct {
	// Source is a zoneinfo directory or a tzdata archive.
	Source     string    `yaml:"source"`
	StrictRule bool      `yaml:"strict_rule"`
	GapPolicy  string    `yaml:"gap_policy"`
	Log        LogConfig `yaml:"log"`
}

// LogConfig selects the level and format of the log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used without a file.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads the file at path, if any, then applies defaults and
// TZINFO_* environment overrides.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if _, err := tz.ParseGapPolicy(c.GapPolicy); err != nil {
		return fmt.Errorf("gap_policy: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// Policy returns the parsed gap policy. It assumes c is valid.
func (c Config) Policy() tz.GapPolicy {
	p, _ := tz.ParseGapPolicy(c.GapPolicy)
	return p
}

// ZoneOptions returns the parse options for zones.
func (c Config) ZoneOptions() tz.Options {
	return tz.Options{StrictRule: c.StrictRule}
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.GapPolicy == "" {
		cfg.GapPolicy = tz.GapReport.String()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func applyEnvOverrides(cfg *Config) error {
	setString("TZINFO_SOURCE", &cfg.Source)
	setString("TZINFO_GAP_POLICY", &cfg.GapPolicy)
	setString("TZINFO_LOG_LEVEL", &cfg.Log.Level)
	setString("TZINFO_LOG_FORMAT", &cfg.Log.Format)
	return setBool("TZINFO_STRICT_RULE", &cfg.StrictRule)
}

func setString(key string, target *string) {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		*target = strings.TrimSpace(val)
	}
}

func setBool(key string, target *bool) error {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = b
	return nil
}
