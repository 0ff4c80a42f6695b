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

// Package query composes the GraphQL search payloads sent to GitHub.
//
// Composition is pure: the same page size and cursor always produce the same
// payload, and nothing here touches the network.
//
//	c := query.NewComposer("")
//	first := c.Compose(query.NodeLimit, nil)
//	next := c.Compose(query.NodeLimit, &endCursor)
package query

import (
	"github.com/shurcooL/graphql"
)

// NodeLimit is the number of search results requested per page.
// 100 is the maximum GitHub allows for a single connection.
const NodeLimit = 100

// DefaultSearchQuery selects open, unassigned Hacktoberfest issues.
const DefaultSearchQuery = "label:hacktoberfest is:issue is:open no:assignee"

// Variable names used in SearchQueryText.
const (
	VarSearchQuery = "searchQuery"
	VarFirst       = "first"
	VarAfter       = "after"
)

// SearchQueryText is the GraphQL document issued for every page.
const SearchQueryText = `query HacktoberfestProjects($searchQuery: String!, $first: Int!, $after: String) {
  search(query: $searchQuery, type: ISSUE, first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        ... on Issue {
          databaseId
          number
          participants {
            totalCount
          }
          timeline {
            totalCount
          }
          title
          url
          bodyText
          repository {
            databaseId
            description
            codeOfConduct {
              url
            }
            forks {
              totalCount
            }
            primaryLanguage {
              name
            }
            name
            nameWithOwner
            stargazers {
              totalCount
            }
            watchers {
              totalCount
            }
            url
          }
        }
      }
    }
  }
}`

// Payload is a composed GraphQL request body.
type Payload struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Cursor returns the "after" cursor bound into the payload, or nil for a
// first-page request.
func (p Payload) Cursor() *string {
	after, ok := p.Variables[VarAfter].(*graphql.String)
	if !ok || after == nil {
		return nil
	}
	s := string(*after)
	return &s
}

// PageSize returns the "first" argument bound into the payload.
func (p Payload) PageSize() int {
	first, ok := p.Variables[VarFirst].(graphql.Int)
	if !ok {
		return 0
	}
	return int(first)
}

// Composer builds search payloads for a fixed set of search terms.
type Composer struct {
	SearchQuery string
}

// NewComposer returns a Composer for the given search terms.
// An empty string selects DefaultSearchQuery.
func NewComposer(searchQuery string) *Composer {
	if searchQuery == "" {
		searchQuery = DefaultSearchQuery
	}
	return &Composer{SearchQuery: searchQuery}
}

// Compose returns a payload fetching up to resultsPerPage items, continuing
// after cursor when it is non-nil and starting from the beginning otherwise.
func (c *Composer) Compose(resultsPerPage int, cursor *string) Payload {
	searchQuery := c.SearchQuery
	if searchQuery == "" {
		searchQuery = DefaultSearchQuery
	}

	variables := map[string]interface{}{
		VarSearchQuery: graphql.String(searchQuery),
		VarFirst:       graphql.Int(int32(resultsPerPage)), // #nosec G115 - callers pass NodeLimit
		VarAfter:       (*graphql.String)(nil),
	}
	if cursor != nil {
		variables[VarAfter] = graphql.NewString(graphql.String(*cursor))
	}

	return Payload{
		Query:     SearchQueryText,
		Variables: variables,
	}
}
