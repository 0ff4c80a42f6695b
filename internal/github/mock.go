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
	"fmt"
	"net/http"

	"github.com/shurcooL/graphql"

	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// MockStep is one scripted reply of a MockExecutor.
type MockStep struct {
	Response *Response
	Err      error
}

// MockExecutor is a scripted implementation of Executor for testing.
// Each call consumes the next step; calls beyond the script fail.
type MockExecutor struct {
	Steps []MockStep

	// Track calls for verification
	CallCount int
	Payloads  []query.Payload
}

// NewMockExecutor creates a mock executor replaying the given steps in order.
func NewMockExecutor(steps ...MockStep) *MockExecutor {
	return &MockExecutor{Steps: steps}
}

// Request implements the Executor interface
func (m *MockExecutor) Request(ctx context.Context, payload query.Payload) (*Response, error) {
	m.CallCount++
	m.Payloads = append(m.Payloads, payload)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.CallCount > len(m.Steps) {
		return nil, fmt.Errorf("mock executor: unexpected request #%d", m.CallCount)
	}

	step := m.Steps[m.CallCount-1]
	return step.Response, step.Err
}

// RespondWith scripts a successful reply.
func RespondWith(resp *Response) MockStep {
	return MockStep{Response: resp}
}

// FailWith scripts an executor failure.
func FailWith(err error) MockStep {
	return MockStep{Err: err}
}

// BadGateway scripts an HTTP 502 failure.
func BadGateway() MockStep {
	return FailWith(&StatusError{Code: http.StatusBadGateway, Status: "502 Bad Gateway"})
}

// Repeat returns n copies of step.
func Repeat(step MockStep, n int) []MockStep {
	steps := make([]MockStep, n)
	for i := range steps {
		steps[i] = step
	}
	return steps
}

// NewPageResponse builds a search response with the given continuation and edges.
// An empty endCursor is sent as null.
func NewPageResponse(hasNextPage bool, endCursor string, edges ...Edge) *Response {
	info := PageInfo{HasNextPage: graphql.Boolean(hasNextPage)}
	if endCursor != "" {
		info.EndCursor = graphql.NewString(graphql.String(endCursor))
	}
	if edges == nil {
		edges = []Edge{}
	}
	return &Response{
		Data: &ResponseData{
			Search: &Search{
				PageInfo: info,
				Edges:    edges,
			},
		},
	}
}

// IssueEdge wraps an issue in an edge.
func IssueEdge(issue *Issue) Edge {
	return Edge{Node: issue}
}

// NewTestIssue returns an issue with every field populated, derived from n
// so that distinct issues are easy to tell apart.
func NewTestIssue(n int) *Issue {
	return &Issue{
		DatabaseID:   int64(3000000000 + n),
		Number:       graphql.Int(n),
		Participants: Count{TotalCount: graphql.Int(n % 7)},
		Timeline:     Count{TotalCount: graphql.Int(n % 11)},
		Title:        graphql.String(fmt.Sprintf("Issue %d", n)),
		URL:          graphql.String(fmt.Sprintf("https://github.com/octo/repo%d/issues/%d", n, n)),
		BodyText:     graphql.NewString(graphql.String(fmt.Sprintf("Help wanted on task %d", n))),
		Repository: &Repository{
			DatabaseID:  int64(1000 + n),
			Description: graphql.NewString(graphql.String(fmt.Sprintf("Repository %d", n))),
			CodeOfConduct: &CodeOfConduct{
				URL: graphql.NewString(graphql.String(fmt.Sprintf("https://github.com/octo/repo%d/blob/main/CODE_OF_CONDUCT.md", n))),
			},
			Forks:           Count{TotalCount: graphql.Int(n * 2)},
			PrimaryLanguage: &Language{Name: "Go"},
			Name:            graphql.String(fmt.Sprintf("repo%d", n)),
			NameWithOwner:   graphql.String(fmt.Sprintf("octo/repo%d", n)),
			Stargazers:      Count{TotalCount: graphql.Int(n * 10)},
			Watchers:        Count{TotalCount: graphql.Int(n * 3)},
			URL:             graphql.String(fmt.Sprintf("https://github.com/octo/repo%d", n)),
		},
	}
}
