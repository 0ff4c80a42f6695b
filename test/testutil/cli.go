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

package testutil

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// binaryName is the file name of the compiled relay under test.
const binaryName = "hacktoberfest-relay"

var (
	buildOnce  sync.Once
	builtPath  string
	buildError error
)

// BuildBinary compiles cmd/relay into a temporary directory. The build runs
// once per test process and every caller gets the same path.
func BuildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			buildError = err
			return
		}

		// Outlives any single test, so not t.TempDir.
		dir, err := os.MkdirTemp("", binaryName+"-bin")
		if err != nil {
			buildError = err
			return
		}
		builtPath = filepath.Join(dir, binaryName)

		build := exec.Command("go", "build", "-o", builtPath, "./cmd/relay")
		build.Dir = root
		if out, err := build.CombinedOutput(); err != nil {
			buildError = errors.New(strings.TrimSpace(string(out)))
		}
	})

	if buildError != nil {
		t.Fatalf("building %s: %v", binaryName, buildError)
	}
	return builtPath
}

// CLIResult is what one relay invocation produced.
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RunCLI runs the relay binary with args. HOME and the working directory are
// a fresh temp dir, so neither ~/.hacktoberfest-relay nor a project-local
// .hacktoberfest-relay.yaml leaks into the test. env entries are appended to
// the inherited environment and win over it.
func RunCLI(t *testing.T, args []string, env map[string]string) CLIResult {
	t.Helper()

	cmd := exec.Command(BuildBinary(t), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "HOME="+cmd.Dir)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := CLIResult{Err: cmd.Run()}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case result.Err == nil:
	case errors.As(result.Err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		// The process never ran.
		result.ExitCode = -1
	}
	return result
}

// RunWithMockServer runs `fetch` against server, authenticated with a
// dummy token.
func RunWithMockServer(t *testing.T, server *MockServer, args ...string) CLIResult {
	t.Helper()

	return RunCLI(t, append([]string{"fetch"}, args...), map[string]string{
		"GITHUB_TOKEN":            "test-token",
		"GITHUB_GRAPHQL_ENDPOINT": server.Endpoint(),
	})
}

// AssertCLISuccess fails the test unless the relay exited 0.
func AssertCLISuccess(t *testing.T, result CLIResult) {
	t.Helper()

	if result.Err != nil {
		t.Fatalf("relay exited %d: %v\nstderr: %s", result.ExitCode, result.Err, result.Stderr)
	}
}

// AssertCLIError fails the test unless the relay failed and, when want is
// non-empty, printed want on stderr.
func AssertCLIError(t *testing.T, result CLIResult, want string) {
	t.Helper()

	if result.Err == nil {
		t.Fatal("relay exited 0, want a failure")
	}
	if want != "" && !strings.Contains(result.Stderr, want) {
		t.Errorf("stderr does not mention %q:\n%s", want, result.Stderr)
	}
}

// AssertExitCode checks the relay's exit code against the documented codes.
func AssertExitCode(t *testing.T, result CLIResult, want int) {
	t.Helper()

	if result.ExitCode != want {
		t.Errorf("exit code = %d, want %d\nstderr: %s", result.ExitCode, want, result.Stderr)
	}
}

// moduleRoot walks up from the working directory to the directory holding go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + dir)
		}
		dir = parent
	}
}
