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

// Package config types define the configuration structures used throughout
// hacktoberfest-relay. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import (
	"time"

	"github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"
	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
	"github.com/sirseerhq/hacktoberfest-relay/internal/logging"
	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// Config represents the complete configuration for hacktoberfest-relay.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GitHubConfig contains the GraphQL endpoint and the name of the environment
// variable holding the API token. A custom endpoint allows GitHub Enterprise
// deployments.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// FetchConfig controls the search and the pagination loop.
type FetchConfig struct {
	// MaxRetries is how many times a page is reissued after a bad gateway.
	MaxRetries int `yaml:"max_retries"`

	// SearchQuery is the GitHub issue search expression.
	SearchQuery string `yaml:"search_query"`

	// Timeout bounds the whole run.
	Timeout time.Duration `yaml:"timeout"`

	// RequestTimeout bounds a single GraphQL request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// OutputConfig selects where records are written. An empty File means stdout.
// MetadataFile, when set, receives a JSON summary of each successful run.
type OutputConfig struct {
	File         string `yaml:"file"`
	MetadataFile string `yaml:"metadata_file"`
}

// LoggingConfig mirrors logging.Config for the fields users can set.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig controls the Prometheus textfile export. An empty
// TextfilePath disables it.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile"`
}

// DefaultConfig returns a Config suitable for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: github.DefaultEndpoint,
			TokenEnv:        "GITHUB_TOKEN",
		},
		Fetch: FetchConfig{
			MaxRetries:     fetcher.DefaultMaxRetries,
			SearchQuery:    query.DefaultSearchQuery,
			Timeout:        10 * time.Minute,
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
	}
}
