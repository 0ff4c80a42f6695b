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

// Package metadata records a summary of each fetch run: the parameters it
// ran with, how many requests, retries, and pages it took, and a breakdown of
// the collected projects. The CLI writes it as a JSON file next to the output
// when asked to.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"
	"github.com/sirseerhq/hacktoberfest-relay/internal/metrics"
)

// Tracker collects statistics about the projects of one run. Create it when
// the run starts so the duration covers the whole fetch.
type Tracker struct {
	startTime    time.Time
	projectStats ProjectStats
}

// ProjectStats summarizes the collected projects.
type ProjectStats struct {
	TotalProjects int
	Repositories  map[string]struct{}
	Languages     map[string]int
}

// New creates a new tracker started at the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		projectStats: ProjectStats{
			Repositories: make(map[string]struct{}),
			Languages:    make(map[string]int),
		},
	}
}

// UpdateProjectStats records the projects of a finished collection.
func (t *Tracker) UpdateProjectStats(projects []fetcher.Project) {
	for i := range projects {
		t.projectStats.TotalProjects++
		t.projectStats.Repositories[projects[i].RepoNameWithOwner] = struct{}{}
		t.projectStats.Languages[projects[i].RepoLanguage]++
	}
}

// GenerateMetadata creates the run record from the tracked projects and the
// counters of the run's metrics.
func (t *Tracker) GenerateMetadata(relayVersion string, params FetchParams, totals metrics.Totals) *FetchMetadata {
	completedAt := time.Now()

	return &FetchMetadata{
		RelayVersion: relayVersion,
		FetchID:      fmt.Sprintf("full-%d", t.startTime.Unix()),
		Parameters:   params,
		Results: FetchResults{
			TotalProjects: t.projectStats.TotalProjects,
			Repositories:  len(t.projectStats.Repositories),
			Languages:     t.projectStats.Languages,
			Pages:         totals.Pages,
			APICallCount:  totals.Requests,
			Retries:       totals.Retries,
			RejectedEdges: totals.RejectedEdges,
			Duration:      completedAt.Sub(t.startTime).String(),
			StartedAt:     t.startTime,
			CompletedAt:   completedAt,
		},
	}
}

// SaveMetadata writes the record to path as indented JSON. The file is
// written atomically using a temporary file and rename.
func SaveMetadata(metadata *FetchMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// WriteMetadataToWriter serializes metadata as indented JSON.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
