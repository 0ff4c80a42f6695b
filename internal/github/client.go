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

package github

import (
	"context"

	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// Executor sends one composed GraphQL payload to GitHub.
// This interface allows for easy mocking in tests.
type Executor interface {
	// Request issues the payload and returns the decoded response. A non-2xx
	// HTTP status is reported as a *StatusError; a 502 additionally matches
	// errors.ErrBadGateway so callers can tell it apart from other failures.
	Request(ctx context.Context, payload query.Payload) (*Response, error)
}
