// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for hacktoberfest-relay
// with a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Flags are applied by the CLI after LoadConfig returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig.
const (
	EnvGraphQLEndpoint = "GITHUB_GRAPHQL_ENDPOINT"
	EnvMaxRetries      = "IMPORT_MAX_RETRIES"
	EnvSearchQuery     = "RELAY_SEARCH_QUERY"
	EnvLogLevel        = "RELAY_LOG_LEVEL"
	EnvLogPretty       = "RELAY_LOG_PRETTY"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .hacktoberfest-relay.yaml (current directory)
//   - .hacktoberfest-relay.yml (current directory)
//   - ~/.hacktoberfest-relay/config.yaml
//   - ~/.hacktoberfest-relay/config.yml
//
// Returns an error if the specified config file cannot be loaded or an
// environment override is malformed, but succeeds with defaults if no
// config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".hacktoberfest-relay.yaml",
			".hacktoberfest-relay.yml",
			filepath.Join(os.Getenv("HOME"), ".hacktoberfest-relay", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".hacktoberfest-relay", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Output.File = expandPath(cfg.Output.File)
	cfg.Output.MetadataFile = expandPath(cfg.Output.MetadataFile)
	cfg.Metrics.TextfilePath = expandPath(cfg.Metrics.TextfilePath)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv(EnvGraphQLEndpoint); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if retries := os.Getenv(EnvMaxRetries); retries != "" {
		n, err := parseNonNegativeInt(retries)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxRetries, err)
		}
		cfg.Fetch.MaxRetries = n
	}
	if search := os.Getenv(EnvSearchQuery); search != "" {
		cfg.Fetch.SearchQuery = search
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if pretty := os.Getenv(EnvLogPretty); pretty != "" {
		cfg.Logging.Pretty = parseBool(pretty)
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parseNonNegativeInt parses a string to an integer >= 0
func parseNonNegativeInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Validate checks if the configuration contains valid values. This should be
// called after loading configuration and applying flags to catch invalid
// settings early.
func (c *Config) Validate() error {
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got: %d", c.Fetch.MaxRetries)
	}
	if strings.TrimSpace(c.Fetch.SearchQuery) == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got: %s", c.Fetch.Timeout)
	}
	if c.Fetch.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %s", c.Fetch.RequestTimeout)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
