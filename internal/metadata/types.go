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

// Package metadata types define the structures used for recording what a
// fetch run did. These types capture the parameters and statistics of a run
// for auditing and troubleshooting.
package metadata

import (
	"time"
)

// FetchMetadata is the complete record of a single successful fetch run.
type FetchMetadata struct {
	RelayVersion string       `json:"relay_version"`
	FetchID      string       `json:"fetch_id"`
	Parameters   FetchParams  `json:"parameters"`
	Results      FetchResults `json:"results"`
}

// FetchParams captures the inputs of a run so it can be reproduced.
type FetchParams struct {
	Endpoint    string `json:"endpoint"`
	SearchQuery string `json:"search_query"`
	PageSize    int    `json:"page_size"`
	MaxRetries  int    `json:"max_retries"`
}

// FetchResults contains statistics about a completed run. Request, retry,
// page, and rejection counts come from the run's metrics; the project
// breakdowns come from the collected records.
type FetchResults struct {
	TotalProjects int            `json:"total_projects"`
	Repositories  int            `json:"distinct_repositories"`
	Languages     map[string]int `json:"projects_by_language"`
	Pages         int            `json:"pages"`
	APICallCount  int            `json:"api_calls_made"`
	Retries       int            `json:"retries"`
	RejectedEdges map[string]int `json:"rejected_edges"`
	Duration      string         `json:"fetch_duration"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
}
