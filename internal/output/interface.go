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

package output

import "github.com/sirseerhq/hacktoberfest-relay/internal/fetcher"

// ProjectWriter is the sink for a finished collection of projects.
type ProjectWriter interface {
	// Write writes a single project.
	Write(project fetcher.Project) error

	// WriteAll writes projects in order, stopping at the first error.
	WriteAll(projects []fetcher.Project) error

	// Close flushes buffered output and releases any resources.
	Close() error
}
