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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/hacktoberfest-relay/internal/config"
	relayerrors "github.com/sirseerhq/hacktoberfest-relay/internal/errors"
	"github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"
	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
	"github.com/sirseerhq/hacktoberfest-relay/internal/logging"
	"github.com/sirseerhq/hacktoberfest-relay/internal/metadata"
	"github.com/sirseerhq/hacktoberfest-relay/internal/metrics"
	"github.com/sirseerhq/hacktoberfest-relay/internal/output"
	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
	"github.com/sirseerhq/hacktoberfest-relay/pkg/version"
)

// fetchFlags holds the raw flag values of the fetch command. Only flags the
// user actually set override the loaded configuration.
type fetchFlags struct {
	configPath  string
	token       string
	outputFile  string
	metadata    string
	searchQuery string
	maxRetries  int
	timeout     time.Duration
	metricsFile string
	logLevel    string
	logPretty   bool
}

func newFetchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all open Hacktoberfest issues as project records",
		Long: `Fetch every page of the Hacktoberfest issue search and output the
flattened project records in NDJSON format.

Issues are skipped when their repository has no primary language or no
description, or when the issue has no body text.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN (or the variable named by github.token_env)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFetchConfig(cmd, &flags)
			if err != nil {
				return err
			}

			token := getToken(flags.token, cfg.GitHub.TokenEnv)
			if token == "" {
				return fmt.Errorf("%w: GitHub token not found. Set %s or use --token flag",
					relayerrors.ErrInvalidToken, cfg.GitHub.TokenEnv)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Fetch.Timeout)
			defer cancel()

			return runFetch(ctx, cfg, token, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to configuration file")
	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.metadata, "metadata-file", "", "Write a JSON run summary to this file")
	cmd.Flags().StringVar(&flags.searchQuery, "search", "", "GitHub issue search expression")
	cmd.Flags().IntVar(&flags.maxRetries, "max-retries", fetcher.DefaultMaxRetries, "Retries per page after a bad gateway response")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Time limit for the whole fetch (default from config: 10m)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&flags.logPretty, "log-pretty", false, "Human-readable log output")

	return cmd
}

// loadFetchConfig loads file and environment configuration, then applies
// the flags that were explicitly set.
func loadFetchConfig(cmd *cobra.Command, flags *fetchFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("output") {
		cfg.Output.File = flags.outputFile
	}
	if set("metadata-file") {
		cfg.Output.MetadataFile = flags.metadata
	}
	if set("search") {
		cfg.Fetch.SearchQuery = flags.searchQuery
	}
	if set("max-retries") {
		cfg.Fetch.MaxRetries = flags.maxRetries
	}
	if set("timeout") {
		cfg.Fetch.Timeout = flags.timeout
	}
	if set("metrics-file") {
		cfg.Metrics.TextfilePath = flags.metricsFile
	}
	if set("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if set("log-pretty") {
		cfg.Logging.Pretty = flags.logPretty
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getToken returns the GitHub token from the flag or the named environment variable
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}
	return os.Getenv(tokenEnv)
}

// runFetch fetches the complete result set, then writes it. Nothing is
// written when the fetch fails.
func runFetch(ctx context.Context, cfg *config.Config, token string, stdout, stderr io.Writer) error {
	logging.Setup(logging.Config{
		Level:  logging.Level(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: stderr,
	})
	logger := logging.NewLogger("cli")

	m := metrics.New()
	if cfg.Metrics.TextfilePath != "" {
		defer flushMetrics(m, cfg.Metrics.TextfilePath, logger)
	}

	executor := github.NewHTTPExecutor(token, cfg.GitHub.GraphQLEndpoint, cfg.Fetch.RequestTimeout)
	f := fetcher.New(executor,
		fetcher.WithConfig(fetcher.Config{MaxRetries: cfg.Fetch.MaxRetries}),
		fetcher.WithComposer(query.NewComposer(cfg.Fetch.SearchQuery)),
		fetcher.WithLogger(logging.NewLogger("fetcher")),
		fetcher.WithMetrics(m),
	)

	fmt.Fprintf(stderr, "Fetching Hacktoberfest projects...\n")
	startTime := time.Now()
	tracker := metadata.New()

	projects, err := f.FetchAll(ctx)
	if err != nil {
		return err
	}

	if err := writeProjects(projects, cfg.Output.File, stdout); err != nil {
		return err
	}

	if cfg.Output.MetadataFile != "" {
		tracker.UpdateProjectStats(projects)
		if err := saveRunMetadata(tracker, m, cfg); err != nil {
			return err
		}
	}

	elapsed := time.Since(startTime)
	if len(projects) == 0 {
		fmt.Fprintf(stderr, "No Hacktoberfest projects found\n")
	} else {
		fmt.Fprintf(stderr, "Successfully fetched %d projects in %s\n", len(projects), elapsed.Round(time.Millisecond))
	}
	return nil
}

// writeProjects writes the collection to outputFile, or to stdout when
// outputFile is empty.
func writeProjects(projects []fetcher.Project, outputFile string, stdout io.Writer) error {
	var writer *output.Writer
	if outputFile == "" {
		writer = output.NewWriter(stdout)
	} else {
		fileWriter, err := output.NewFileWriter(outputFile)
		if err != nil {
			return err
		}
		writer = fileWriter
	}

	if err := writer.WriteAll(projects); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// saveRunMetadata writes the run summary to the configured metadata file.
func saveRunMetadata(tracker *metadata.Tracker, m *metrics.Metrics, cfg *config.Config) error {
	totals, err := m.Totals()
	if err != nil {
		return err
	}

	meta := tracker.GenerateMetadata(version.Version, metadata.FetchParams{
		Endpoint:    cfg.GitHub.GraphQLEndpoint,
		SearchQuery: cfg.Fetch.SearchQuery,
		PageSize:    query.NodeLimit,
		MaxRetries:  cfg.Fetch.MaxRetries,
	}, totals)

	if err := metadata.SaveMetadata(meta, cfg.Output.MetadataFile); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func flushMetrics(m *metrics.Metrics, path string, logger zerolog.Logger) {
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Msg("could not write metrics textfile")
		return
	}
	logger.Debug().Str("path", path).Msg("wrote metrics textfile")
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrInvalidToken) ||
		errors.Is(err, relayerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) ||
		errors.Is(err, relayerrors.ErrBadGateway) ||
		errors.Is(err, relayerrors.ErrMaxRetriesExceeded) ||
		errors.Is(err, context.DeadlineExceeded) {
		return 3 // Network errors
	}

	if errors.Is(err, relayerrors.ErrInvalidResponse) {
		return 4 // Malformed API response
	}

	return 1 // General error
}
