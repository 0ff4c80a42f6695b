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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	relayerrors "github.com/sirseerhq/hacktoberfest-relay/internal/errors"
	"github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"
	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
	"github.com/sirseerhq/hacktoberfest-relay/internal/metadata"
	"github.com/sirseerhq/hacktoberfest-relay/pkg/version"
	"github.com/sirseerhq/hacktoberfest-relay/test/testutil"
)

// isolate runs the test in an empty HOME and working directory with no
// relay environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_GRAPHQL_ENDPOINT", "IMPORT_MAX_RETRIES",
		"RELAY_SEARCH_QUERY", "RELAY_LOG_LEVEL", "RELAY_LOG_PRETTY",
	} {
		t.Setenv(key, "")
	}
	return dir
}

// execute runs the root command with args and returns its output and error.
func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGetToken(t *testing.T) {
	tests := []struct {
		name      string
		flagToken string
		tokenEnv  string
		env       map[string]string
		want      string
	}{
		{
			name:      "flag wins",
			flagToken: "flag-token",
			tokenEnv:  "GITHUB_TOKEN",
			env:       map[string]string{"GITHUB_TOKEN": "env-token"},
			want:      "flag-token",
		},
		{
			name:     "default env var",
			tokenEnv: "GITHUB_TOKEN",
			env:      map[string]string{"GITHUB_TOKEN": "env-token"},
			want:     "env-token",
		},
		{
			name:     "custom env var",
			tokenEnv: "GHE_TOKEN",
			env:      map[string]string{"GITHUB_TOKEN": "env-token", "GHE_TOKEN": "ghe-token"},
			want:     "ghe-token",
		},
		{
			name:     "empty env name falls back to GITHUB_TOKEN",
			tokenEnv: "",
			env:      map[string]string{"GITHUB_TOKEN": "env-token"},
			want:     "env-token",
		},
		{
			name:     "nothing set",
			tokenEnv: "GITHUB_TOKEN",
			env:      map[string]string{"GITHUB_TOKEN": ""},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := getToken(tt.flagToken, tt.tokenEnv); got != tt.want {
				t.Errorf("getToken(%q, %q) = %q, want %q", tt.flagToken, tt.tokenEnv, got, tt.want)
			}
		})
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"generic", errors.New("boom"), 1},
		{"invalid token", fmt.Errorf("wrapped: %w", relayerrors.ErrInvalidToken), 2},
		{"unauthorized status", &github.StatusError{Code: http.StatusUnauthorized}, 2},
		{"rate limited status", &github.StatusError{Code: http.StatusForbidden, RateLimited: true}, 2},
		{"network failure", fmt.Errorf("dial: %w", relayerrors.ErrNetworkFailure), 3},
		{"deadline", context.DeadlineExceeded, 3},
		{"max retries", &fetcher.FetchError{Kind: fetcher.MaxRetriesExceeded}, 3},
		{"invalid response", &fetcher.FetchError{Kind: fetcher.InvalidResponse}, 4},
		{"service unavailable", &github.StatusError{Code: http.StatusServiceUnavailable}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestLoadFetchConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	configPath := testutil.WriteConfigFile(t, dir, `
fetch:
  max_retries: 3
  search_query: from-file
  timeout: 1m
output:
  file: from-file.ndjson
logging:
  level: warn
`)
	t.Setenv("IMPORT_MAX_RETRIES", "4")
	t.Setenv("RELAY_SEARCH_QUERY", "from-env")

	tests := []struct {
		name        string
		args        []string
		wantRetries int
		wantSearch  string
		wantOutput  string
		wantTimeout time.Duration
		wantLevel   string
	}{
		{
			name:        "file and env only",
			args:        []string{"--config", configPath},
			wantRetries: 4,
			wantSearch:  "from-env",
			wantOutput:  "from-file.ndjson",
			wantTimeout: time.Minute,
			wantLevel:   "warn",
		},
		{
			name:        "flags override everything",
			args:        []string{"--config", configPath, "--max-retries", "0", "--search", "from-flag", "--output", "flag.ndjson", "--timeout", "30s", "--log-level", "debug"},
			wantRetries: 0,
			wantSearch:  "from-flag",
			wantOutput:  "flag.ndjson",
			wantTimeout: 30 * time.Second,
			wantLevel:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newFetchCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			var flags fetchFlags
			flags.configPath, _ = cmd.Flags().GetString("config")
			flags.maxRetries, _ = cmd.Flags().GetInt("max-retries")
			flags.searchQuery, _ = cmd.Flags().GetString("search")
			flags.outputFile, _ = cmd.Flags().GetString("output")
			flags.timeout, _ = cmd.Flags().GetDuration("timeout")
			flags.logLevel, _ = cmd.Flags().GetString("log-level")

			cfg, err := loadFetchConfig(cmd, &flags)
			if err != nil {
				t.Fatalf("loadFetchConfig: %v", err)
			}
			if cfg.Fetch.MaxRetries != tt.wantRetries {
				t.Errorf("MaxRetries = %d, want %d", cfg.Fetch.MaxRetries, tt.wantRetries)
			}
			if cfg.Fetch.SearchQuery != tt.wantSearch {
				t.Errorf("SearchQuery = %q, want %q", cfg.Fetch.SearchQuery, tt.wantSearch)
			}
			if cfg.Output.File != tt.wantOutput {
				t.Errorf("Output.File = %q, want %q", cfg.Output.File, tt.wantOutput)
			}
			if cfg.Fetch.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %s, want %s", cfg.Fetch.Timeout, tt.wantTimeout)
			}
			if cfg.Logging.Level != tt.wantLevel {
				t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, tt.wantLevel)
			}
		})
	}
}

func TestFetchCommand_InvalidConfiguration(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "test-token")

	_, _, err := execute("fetch", "--max-retries", "-1")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("err = %v, want invalid configuration", err)
	}
	if code := mapErrorToExitCode(err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestFetchCommand_MissingToken(t *testing.T) {
	isolate(t)

	_, _, err := execute("fetch")
	if err == nil || !strings.Contains(err.Error(), "GitHub token not found") {
		t.Fatalf("err = %v, want missing token error", err)
	}
	if code := mapErrorToExitCode(err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestFetchCommand_EndToEnd(t *testing.T) {
	tests := []struct {
		name         string
		setupServer  func(t *testing.T) *testutil.MockServer
		args         []string
		wantCode     int
		wantProjects int
		wantRequests int
	}{
		{
			name: "paginated fetch with filtering",
			setupServer: func(t *testing.T) *testutil.MockServer {
				// 250 issues, every 5th without body: 200 records over 3 pages.
				return testutil.NewGitHubLikeSearchServer(t, testutil.GenerateIssues(250, 5)).MockServer
			},
			wantCode:     0,
			wantProjects: 200,
			wantRequests: 3,
		},
		{
			name: "recovers from bad gateways",
			setupServer: func(t *testing.T) *testutil.MockServer {
				return testutil.NewTransientErrorServer(t, 3, http.StatusBadGateway, testutil.GenerateSearchResponse(1, 4, false))
			},
			wantCode:     0,
			wantProjects: 4,
			wantRequests: 4,
		},
		{
			name: "bad gateway retries exhausted",
			setupServer: func(t *testing.T) *testutil.MockServer {
				return testutil.NewErrorServer(t, http.StatusBadGateway)
			},
			args:         []string{"--max-retries", "2"},
			wantCode:     3,
			wantRequests: 3,
		},
		{
			name: "null data",
			setupServer: func(t *testing.T) *testutil.MockServer {
				return testutil.NewScriptedServer(t, testutil.PageStep(map[string]interface{}{
					"data":   nil,
					"errors": []map[string]interface{}{{"message": "Something went wrong"}},
				}))
			},
			wantCode:     4,
			wantRequests: 1,
		},
		{
			name: "unauthorized is not retried",
			setupServer: func(t *testing.T) *testutil.MockServer {
				return testutil.NewErrorServer(t, http.StatusUnauthorized)
			},
			wantCode:     2,
			wantRequests: 1,
		},
		{
			name: "service unavailable is not retried",
			setupServer: func(t *testing.T) *testutil.MockServer {
				return testutil.NewErrorServer(t, http.StatusServiceUnavailable)
			},
			wantCode:     1,
			wantRequests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			server := tt.setupServer(t)
			t.Setenv("GITHUB_TOKEN", "test-token")
			t.Setenv("GITHUB_GRAPHQL_ENDPOINT", server.Endpoint())

			outputFile := filepath.Join(dir, "projects.ndjson")
			args := append([]string{"fetch", "--output", outputFile}, tt.args...)
			_, stderr, err := execute(args...)

			if code := mapErrorToExitCode(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (err: %v), want %d\nstderr: %s", code, err, tt.wantCode, stderr)
			}
			if got := server.RequestCount(); got != tt.wantRequests {
				t.Errorf("server saw %d requests, want %d", got, tt.wantRequests)
			}

			if tt.wantCode != 0 {
				testutil.AssertFileNotExists(t, outputFile)
				return
			}
			testutil.AssertNDJSONOutput(t, outputFile, tt.wantProjects)
			testutil.AssertContainsString(t, stderr, fmt.Sprintf("Successfully fetched %d projects", tt.wantProjects))
			for _, req := range server.Requests() {
				testutil.AssertGraphQLRequest(t, req, "test-token")
			}
		})
	}
}

func TestFetchCommand_StdoutAndMetrics(t *testing.T) {
	dir := isolate(t)
	server := testutil.NewScriptedServer(t,
		testutil.StatusStep(http.StatusBadGateway),
		testutil.PageStep(testutil.SearchResponse([]map[string]interface{}{
			testutil.NewIssueBuilder(1).Build(),
			testutil.NewIssueBuilder(2).WithoutLanguage().Build(),
		}, false, "")),
	)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", server.Endpoint())

	metricsFile := filepath.Join(dir, "relay.prom")
	stdout, _, err := execute("fetch", "--metrics-file", metricsFile, "--search", "label:hacktoberfest language:go")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 1 {
		t.Fatalf("stdout has %d records, want 1:\n%s", len(lines), stdout)
	}
	testutil.AssertContainsString(t, lines[0], `"issue_number":1`)

	if got := server.Requests()[0].Variables["searchQuery"]; got != "label:hacktoberfest language:go" {
		t.Errorf("searchQuery = %v", got)
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	for _, want := range []string{
		"relay_retries_total 1",
		"relay_records_total 1",
		`relay_edges_rejected_total{reason="missing_language"} 1`,
	} {
		testutil.AssertContainsString(t, string(data), want)
	}
}

func TestFetchCommand_MetadataFile(t *testing.T) {
	dir := isolate(t)
	server := testutil.NewScriptedServer(t,
		testutil.PageStep(testutil.SearchResponse([]map[string]interface{}{
			testutil.NewIssueBuilder(1).WithRepository("octo", "alpha").WithLanguage("Go").Build(),
			testutil.NewIssueBuilder(2).WithRepository("octo", "alpha").WithLanguage("Go").Build(),
		}, true, "c1")),
		testutil.StatusStep(http.StatusBadGateway),
		testutil.PageStep(testutil.SearchResponse([]map[string]interface{}{
			testutil.NewIssueBuilder(3).WithRepository("octo", "beta").WithLanguage("Rust").Build(),
			testutil.NewIssueBuilder(4).WithoutBody().Build(),
		}, false, "")),
	)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", server.Endpoint())

	metadataFile := filepath.Join(dir, "runs", "summary.json")
	_, _, err := execute("fetch", "--output", filepath.Join(dir, "out.ndjson"), "--metadata-file", metadataFile)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data, err := os.ReadFile(metadataFile)
	if err != nil {
		t.Fatalf("metadata file not written: %v", err)
	}

	var meta metadata.FetchMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("invalid metadata JSON: %v", err)
	}

	if meta.RelayVersion != version.Version {
		t.Errorf("RelayVersion = %s, want %s", meta.RelayVersion, version.Version)
	}
	if meta.Parameters.Endpoint != server.Endpoint() || meta.Parameters.PageSize != 100 || meta.Parameters.MaxRetries != 7 {
		t.Errorf("Parameters = %+v", meta.Parameters)
	}

	results := meta.Results
	if results.TotalProjects != 3 || results.Repositories != 2 {
		t.Errorf("TotalProjects/Repositories = %d/%d, want 3/2", results.TotalProjects, results.Repositories)
	}
	if results.Languages["Go"] != 2 || results.Languages["Rust"] != 1 {
		t.Errorf("Languages = %v", results.Languages)
	}
	if results.APICallCount != 3 || results.Retries != 1 || results.Pages != 2 {
		t.Errorf("APICallCount/Retries/Pages = %d/%d/%d, want 3/1/2", results.APICallCount, results.Retries, results.Pages)
	}
	if results.RejectedEdges["missing_body"] != 1 {
		t.Errorf("RejectedEdges = %v", results.RejectedEdges)
	}
}

func TestFetchCommand_MetadataNotWrittenOnFailure(t *testing.T) {
	dir := isolate(t)
	server := testutil.NewErrorServer(t, http.StatusUnauthorized)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", server.Endpoint())

	metadataFile := filepath.Join(dir, "summary.json")
	if _, _, err := execute("fetch", "--metadata-file", metadataFile); err == nil {
		t.Fatal("expected fetch to fail")
	}
	testutil.AssertFileNotExists(t, metadataFile)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if want := "hacktoberfest-relay " + version.Version; strings.TrimSpace(stdout) != want {
		t.Errorf("version output = %q, want %q", stdout, want)
	}
}
