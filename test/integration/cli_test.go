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

package integration

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/hacktoberfest-relay/test/testutil"
)

func TestCLI_Version(t *testing.T) {
	skipUnlessIntegration(t)

	result := testutil.RunCLI(t, []string{"version"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "hacktoberfest-relay ")

	result = testutil.RunCLI(t, []string{"--version"}, nil)
	testutil.AssertCLISuccess(t, result)
}

func TestCLI_RejectsArguments(t *testing.T) {
	skipUnlessIntegration(t)

	result := testutil.RunCLI(t, []string{"fetch", "golang/go"}, map[string]string{"GITHUB_TOKEN": "test-token"})
	testutil.AssertCLIError(t, result, "unknown command")
	testutil.AssertExitCode(t, result, 1)
}

func TestCLI_ExitCodes(t *testing.T) {
	skipUnlessIntegration(t)

	tests := []struct {
		name     string
		status   int
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: 2, wantErr: "401"},
		{name: "forbidden", status: http.StatusForbidden, wantCode: 2, wantErr: "403"},
		{name: "too many requests", status: http.StatusTooManyRequests, wantCode: 2, wantErr: "429"},
		{name: "bad gateway exhausted", status: http.StatusBadGateway, args: []string{"--max-retries", "1"}, wantCode: 3, wantErr: "max retries exceeded after 2 attempts"},
		{name: "internal server error", status: http.StatusInternalServerError, wantCode: 1, wantErr: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewErrorServer(t, tt.status)
			outputFile := filepath.Join(t.TempDir(), "projects.ndjson")

			result := testutil.RunWithMockServer(t, server, append([]string{"--output", outputFile}, tt.args...)...)

			testutil.AssertCLIError(t, result, tt.wantErr)
			testutil.AssertExitCode(t, result, tt.wantCode)
			testutil.AssertFileNotExists(t, outputFile)
		})
	}
}

func TestCLI_InvalidResponseExitCode(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewScriptedServer(t,
		testutil.PageStep(testutil.GenerateSearchResponse(1, 3, true)),
		testutil.PageStep(map[string]interface{}{"data": map[string]interface{}{"search": nil}}),
	)

	result := testutil.RunWithMockServer(t, server)

	testutil.AssertCLIError(t, result, "invalid response received")
	testutil.AssertExitCode(t, result, 4)
	if strings.TrimSpace(result.Stdout) != "" {
		t.Errorf("expected no records on stdout after a failed fetch, got: %s", result.Stdout)
	}
}

func TestCLI_MissingToken(t *testing.T) {
	skipUnlessIntegration(t)

	server := testutil.NewScriptedServer(t)
	result := testutil.RunCLI(t, []string{"fetch"}, map[string]string{
		"GITHUB_TOKEN":            "",
		"GITHUB_GRAPHQL_ENDPOINT": server.Endpoint(),
	})

	testutil.AssertCLIError(t, result, "GitHub token not found")
	testutil.AssertExitCode(t, result, 2)
	if server.RequestCount() != 0 {
		t.Errorf("expected no API requests, got %d", server.RequestCount())
	}
}
