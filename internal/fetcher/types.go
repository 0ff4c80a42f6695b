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

package fetcher

// DefaultMaxRetries is the number of times a page is reissued after a bad
// gateway before the fetch gives up.
const DefaultMaxRetries = 7

// Config controls fetch behavior.
type Config struct {
	// MaxRetries is how many times a single page is reissued after an
	// upstream bad gateway. A page is attempted at most MaxRetries+1 times.
	MaxRetries int
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{MaxRetries: DefaultMaxRetries}
}

// Project is one Hacktoberfest issue flattened together with its repository.
// This is the record written to NDJSON output.
type Project struct {
	IssueDatabaseID      int64  `json:"issue_database_id"`
	IssueNumber          int    `json:"issue_number"`
	IssueParticipants    int    `json:"issue_participants"`
	IssueTimelineEvents  int    `json:"issue_timeline_events"`
	IssueTitle           string `json:"issue_title"`
	IssueURL             string `json:"issue_url"`
	RepoDatabaseID       int64  `json:"repo_database_id"`
	RepoDescription      string `json:"repo_description"`
	RepoCodeOfConductURL string `json:"repo_code_of_conduct_url"`
	RepoForks            int    `json:"repo_forks"`
	RepoLanguage         string `json:"repo_language"`
	RepoName             string `json:"repo_name"`
	RepoNameWithOwner    string `json:"repo_name_with_owner"`
	RepoStars            int    `json:"repo_stars"`
	RepoWatchers         int    `json:"repo_watchers"`
	RepoURL              string `json:"repo_url"`
}
