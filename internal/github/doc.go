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

// Package github sends search queries to GitHub's GraphQL API and decodes
// the responses into typed structures.
//
// The package includes:
//   - An Executor interface for issuing one composed payload
//   - An HTTP implementation with bearer auth and response size limits
//   - A scripted MockExecutor and response builders for testing
//   - Typed response structures using shurcooL/graphql scalars, with pointer
//     fields wherever GitHub may return null
//
// Basic usage:
//
//	exec := github.NewHTTPExecutor("your-github-token", github.DefaultEndpoint, 30*time.Second)
//	resp, err := exec.Request(ctx, query.NewComposer("").Compose(query.NodeLimit, nil))
//	if errors.Is(err, relayerrors.ErrBadGateway) {
//	    // transient; safe to reissue the same payload
//	}
package github
