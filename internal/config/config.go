package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all stacklens configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Engine EngineConfig `yaml:"engine"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig selects where raw signals come from.
type SourceConfig struct {
	Kind string `yaml:"kind"` // "stdin" or "file"
	Path string `yaml:"path"`
}

// EngineConfig holds categorization engine settings.
type EngineConfig struct {
	RulesPath string `yaml:"rules_path"` // empty = embedded default rules
	BatchSize int    `yaml:"batch_size"`
	CacheSize int    `yaml:"cache_size"`
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Pretty bool   `yaml:"pretty"`
	Path   string `yaml:"path"` // also write the taxonomy to this file when set
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file (STACKLENS_CONFIG),
// then applies environment variable overrides and defaults.
func Load() (Config, error) {
	cfg := Config{
		Source: SourceConfig{Kind: "stdin"},
		Engine: EngineConfig{BatchSize: 100, CacheSize: 1024},
		Log:    LogConfig{Level: "info"},
	}

	if path := os.Getenv("STACKLENS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Source.Kind = getenv("STACKLENS_SOURCE", cfg.Source.Kind)
	cfg.Source.Path = getenv("STACKLENS_INPUT", cfg.Source.Path)
	cfg.Engine.RulesPath = getenv("STACKLENS_RULES", cfg.Engine.RulesPath)
	cfg.Engine.BatchSize = getenvInt("STACKLENS_BATCH_SIZE", cfg.Engine.BatchSize)
	cfg.Engine.CacheSize = getenvInt("STACKLENS_CACHE_SIZE", cfg.Engine.CacheSize)
	cfg.Output.Pretty = getenvBool("STACKLENS_PRETTY", cfg.Output.Pretty)
	cfg.Output.Path = getenv("STACKLENS_OUTPUT_FILE", cfg.Output.Path)
	cfg.Log.Level = getenv("STACKLENS_LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
