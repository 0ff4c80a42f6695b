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
	"fmt"
	"strings"

	"github.com/shurcooL/graphql"
)

// Response is the decoded body of a GraphQL search request. Data is nil when
// the server omitted it or sent null; Errors holds any GraphQL-level errors,
// which may accompany partial data.
type Response struct {
	Data   *ResponseData `json:"data"`
	Errors []ErrorDetail `json:"errors,omitempty"`
}

// ResponseData is the "data" object of a search response.
type ResponseData struct {
	Search *Search `json:"search"`
}

// Search is one page of search results plus continuation metadata.
type Search struct {
	PageInfo PageInfo `json:"pageInfo"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo describes whether and how to fetch the next page.
type PageInfo struct {
	HasNextPage graphql.Boolean `json:"hasNextPage"`
	EndCursor   *graphql.String `json:"endCursor"`
}

// Edge wraps one search result node. Node is nil for a null node and the
// zero Issue when the result matched something other than an Issue.
type Edge struct {
	Node *Issue `json:"node"`
}

// Count is a connection reduced to its total count.
type Count struct {
	TotalCount graphql.Int `json:"totalCount"`
}

// Issue is the subset of GitHub's Issue object requested by the search query.
// Database IDs exceed the range of graphql.Int, so they are decoded as int64.
type Issue struct {
	DatabaseID   int64           `json:"databaseId"`
	Number       graphql.Int     `json:"number"`
	Participants Count           `json:"participants"`
	Timeline     Count           `json:"timeline"`
	Title        graphql.String  `json:"title"`
	URL          graphql.String  `json:"url"`
	BodyText     *graphql.String `json:"bodyText"`
	Repository   *Repository     `json:"repository"`
}

// IsEmpty reports whether the issue is absent or carries no fields at all.
func (i *Issue) IsEmpty() bool {
	return i == nil || *i == (Issue{})
}

// Repository is the subset of GitHub's Repository object requested for each issue.
type Repository struct {
	DatabaseID      int64           `json:"databaseId"`
	Description     *graphql.String `json:"description"`
	CodeOfConduct   *CodeOfConduct  `json:"codeOfConduct"`
	Forks           Count           `json:"forks"`
	PrimaryLanguage *Language       `json:"primaryLanguage"`
	Name            graphql.String  `json:"name"`
	NameWithOwner   graphql.String  `json:"nameWithOwner"`
	Stargazers      Count           `json:"stargazers"`
	Watchers        Count           `json:"watchers"`
	URL             graphql.String  `json:"url"`
}

// CodeOfConduct is a repository's code of conduct. URL may be null.
type CodeOfConduct struct {
	URL *graphql.String `json:"url"`
}

// Language is a repository's primary language.
type Language struct {
	Name graphql.String `json:"name"`
}

// ErrorDetail is one entry of a GraphQL "errors" array.
type ErrorDetail struct {
	Message   string        `json:"message"`
	Type      string        `json:"type,omitempty"`
	Path      []interface{} `json:"path,omitempty"`
	Locations []Location    `json:"locations,omitempty"`
}

// Location points at the part of the query an error refers to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error implements the error interface.
func (d ErrorDetail) Error() string {
	if d.Type != "" {
		return fmt.Sprintf("%s: %s", d.Type, d.Message)
	}
	return d.Message
}

// JoinErrorDetails renders a list of GraphQL errors as one line.
func JoinErrorDetails(details []ErrorDetail) string {
	msgs := make([]string, 0, len(details))
	for _, d := range details {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "; ")
}
