// Package config loads ort CLI settings from a YAML file and ORT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/ort/ort"
)

// Config holds CLI defaults. Command-line flags override these values.
type Config struct {
	MaxDepth    int
	Tabular     bool
	JSONIndent  string
	Compression string
	HistoryFile string
	LogLevel    string
}

// FileConfig mirrors the YAML file. Pointer fields distinguish an explicit
// false or empty value from an absent key.
type FileConfig struct {
	MaxDepth    int     `yaml:"maxDepth"`
	Tabular     *bool   `yaml:"tabular"`
	JSONIndent  *string `yaml:"jsonIndent"`
	Compression string  `yaml:"compression"`
	HistoryFile string  `yaml:"historyFile"`
	LogLevel    string  `yaml:"logLevel"`
}

// Default returns the built-in settings.
func Default() Config {
	home, _ := os.UserHomeDir()
	history := ""
	if home != "" {
		history = filepath.Join(home, ".ort_history")
	}
	return Config{
		MaxDepth:    ort.DefaultMaxDepth,
		Tabular:     true,
		JSONIndent:  "  ",
		Compression: "none",
		HistoryFile: history,
		LogLevel:    "warn",
	}
}

// Candidates lists the files LoadFromPath tries, in order. An explicit path
// is the only candidate.
func Candidates(configPath string) []string {
	if configPath != "" {
		return []string{configPath}
	}

	candidates := make([]string, 0, 3)
	if env := strings.TrimSpace(os.Getenv("ORT_CONFIG")); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, ".ort.yaml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "ort", "config.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ort", "config.yaml"))
	}
	return candidates
}

// LoadFromPath merges the first readable candidate file into the defaults
// and applies environment overrides. It returns the file used, or "" when
// none was found. A missing explicit path or a malformed file is an error.
func LoadFromPath(configPath string) (Config, string, error) {
	cfg := Default()

	for _, path := range Candidates(configPath) {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath == "" && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return cfg, "", fmt.Errorf("read config: %w", err)
		}

		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, "", fmt.Errorf("parse config %s: %w", path, err)
		}

		Merge(&cfg, parsed)
		if err := ApplyEnvOverrides(&cfg); err != nil {
			return cfg, path, err
		}
		return cfg, path, nil
	}

	return cfg, "", ApplyEnvOverrides(&cfg)
}

// Merge copies the values set in src over dst.
func Merge(dst *Config, src FileConfig) {
	if src.MaxDepth != 0 {
		dst.MaxDepth = src.MaxDepth
	}
	if src.Tabular != nil {
		dst.Tabular = *src.Tabular
	}
	if src.JSONIndent != nil {
		dst.JSONIndent = *src.JSONIndent
	}
	if src.Compression != "" {
		dst.Compression = src.Compression
	}
	if src.HistoryFile != "" {
		dst.HistoryFile = src.HistoryFile
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

// ApplyEnvOverrides applies ORT_MAX_DEPTH, ORT_TABULAR, ORT_COMPRESSION,
// ORT_HISTORY_FILE and ORT_LOG_LEVEL.
func ApplyEnvOverrides(cfg *Config) error {
	if raw := strings.TrimSpace(os.Getenv("ORT_MAX_DEPTH")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("ORT_MAX_DEPTH: invalid value %q", raw)
		}
		cfg.MaxDepth = n
	}
	if raw := strings.TrimSpace(os.Getenv("ORT_TABULAR")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("ORT_TABULAR: invalid value %q", raw)
		}
		cfg.Tabular = v
	}
	if v := strings.TrimSpace(os.Getenv("ORT_COMPRESSION")); v != "" {
		cfg.Compression = v
	}
	if v := strings.TrimSpace(os.Getenv("ORT_HISTORY_FILE")); v != "" {
		cfg.HistoryFile = v
	}
	if v := strings.TrimSpace(os.Getenv("ORT_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// ParseOptions returns the parser options for cfg.
func (c Config) ParseOptions() ort.ParseOptions {
	opts := ort.DefaultParseOptions()
	if c.MaxDepth > 0 {
		opts.MaxDepth = c.MaxDepth
	}
	return opts
}

// GenerateOptions returns the generator options for cfg.
func (c Config) GenerateOptions() ort.GenerateOptions {
	opts := ort.DefaultGenerateOptions()
	if c.MaxDepth > 0 {
		opts.MaxDepth = c.MaxDepth
	}
	opts.Tabular = c.Tabular
	return opts
}
