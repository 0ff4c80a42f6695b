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

// Package main implements the hacktoberfest-relay command-line interface.
// The tool walks GitHub's paginated issue search, retrying pages that fail
// with a bad gateway, and writes the complete collection of project records
// as NDJSON once every page has been fetched.
//
// Usage:
//
//	hacktoberfest-relay fetch [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	hacktoberfest-relay fetch --output projects.ndjson --max-retries 3
//
// Configuration is read from --config, .hacktoberfest-relay.yaml or
// ~/.hacktoberfest-relay/config.yaml, then environment variables
// (GITHUB_GRAPHQL_ENDPOINT, IMPORT_MAX_RETRIES, RELAY_SEARCH_QUERY,
// RELAY_LOG_LEVEL, RELAY_LOG_PRETTY), then flags.
//
// With --metadata-file, a JSON summary of a successful run (record counts per
// language, pages, API calls, retries, rejected issues) is written alongside
// the output.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication or rate limit error
//   - 3: Network error, including exhausted bad gateway retries
//   - 4: Invalid response from the GraphQL API
package main
