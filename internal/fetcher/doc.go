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

// Package fetcher retrieves every Hacktoberfest project from GitHub's
// paginated search API.
//
// A Fetcher walks the search connection one page at a time, threading each
// page's end cursor into the next request. Pages that fail with an upstream
// 502 are reissued unchanged up to Config.MaxRetries times; any other
// executor failure aborts the fetch untouched. Each accepted search edge is
// flattened into a Project, and the complete, ordered collection is returned
// only once the last page has been processed.
//
// Basic usage:
//
//	f := fetcher.New(github.NewHTTPExecutor(token, github.DefaultEndpoint, 30*time.Second),
//	    fetcher.WithConfig(fetcher.Config{MaxRetries: 7}))
//	projects, err := f.FetchAll(ctx)
//	var fetchErr *fetcher.FetchError
//	if errors.As(err, &fetchErr) {
//	    // fetchErr.Query is the payload that failed, fetchErr.Errors any GraphQL errors seen
//	}
package fetcher
