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
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// projectFields are the keys every NDJSON project record must carry.
var projectFields = []string{
	"issue_database_id", "issue_number", "issue_participants", "issue_timeline_events",
	"issue_title", "issue_url", "repo_database_id", "repo_description",
	"repo_code_of_conduct_url", "repo_forks", "repo_language", "repo_name",
	"repo_name_with_owner", "repo_stars", "repo_watchers", "repo_url",
}

// ReadProjects parses an NDJSON file of project records.
func ReadProjects(t *testing.T, filePath string) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	var projects []map[string]interface{}
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var project map[string]interface{}
		if err := json.Unmarshal([]byte(text), &project); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", line, err)
			continue
		}
		projects = append(projects, project)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading file: %v", err)
	}
	return projects
}

// AssertNDJSONOutput validates that a file contains valid NDJSON with the
// expected number of complete project records
func AssertNDJSONOutput(t *testing.T, filePath string, expectedCount int) []map[string]interface{} {
	t.Helper()

	projects := ReadProjects(t, filePath)
	for i, project := range projects {
		for _, field := range projectFields {
			if _, ok := project[field]; !ok {
				t.Errorf("Record %d: missing required field '%s'", i+1, field)
			}
		}
	}

	if len(projects) != expectedCount {
		t.Errorf("Expected %d projects, got %d", expectedCount, len(projects))
	}
	return projects
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}
