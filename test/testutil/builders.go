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

package testutil

import "fmt"

// IssueBuilder provides a fluent API for creating search result issue nodes
// in the JSON shape returned by the GraphQL API.
type IssueBuilder struct {
	databaseID    int64
	number        int
	title         string
	body          *string
	participants  int
	timeline      int
	repoID        int64
	owner         string
	repo          string
	description   *string
	language      *string
	codeOfConduct *string
	forks         int
	stars         int
	watchers      int
	noRepository  bool
}

// NewIssueBuilder creates an issue builder whose defaults pass the project
// filter: the repository has a language and a description, and the issue has
// body text.
func NewIssueBuilder(number int) *IssueBuilder {
	body := fmt.Sprintf("Looking for help with task %d", number)
	description := fmt.Sprintf("Project number %d", number)
	language := "Go"
	return &IssueBuilder{
		databaseID:   int64(2000000000 + number),
		number:       number,
		title:        fmt.Sprintf("Issue %d", number),
		body:         &body,
		participants: 1,
		timeline:     2,
		repoID:       int64(500 + number),
		owner:        "hacktoberfest",
		repo:         fmt.Sprintf("project-%d", number),
		description:  &description,
		language:     &language,
		forks:        3,
		stars:        12,
		watchers:     4,
	}
}

// WithTitle sets the issue title
func (b *IssueBuilder) WithTitle(title string) *IssueBuilder {
	b.title = title
	return b
}

// WithBody sets the issue body text
func (b *IssueBuilder) WithBody(body string) *IssueBuilder {
	b.body = &body
	return b
}

// WithoutBody makes bodyText null
func (b *IssueBuilder) WithoutBody() *IssueBuilder {
	b.body = nil
	return b
}

// WithRepository sets the repository owner and name
func (b *IssueBuilder) WithRepository(owner, repo string) *IssueBuilder {
	b.owner = owner
	b.repo = repo
	return b
}

// WithoutRepository makes repository null
func (b *IssueBuilder) WithoutRepository() *IssueBuilder {
	b.noRepository = true
	return b
}

// WithDescription sets the repository description
func (b *IssueBuilder) WithDescription(description string) *IssueBuilder {
	b.description = &description
	return b
}

// WithoutDescription makes the repository description null
func (b *IssueBuilder) WithoutDescription() *IssueBuilder {
	b.description = nil
	return b
}

// WithLanguage sets the repository primary language
func (b *IssueBuilder) WithLanguage(language string) *IssueBuilder {
	b.language = &language
	return b
}

// WithoutLanguage makes primaryLanguage null
func (b *IssueBuilder) WithoutLanguage() *IssueBuilder {
	b.language = nil
	return b
}

// WithCodeOfConduct sets the repository code of conduct URL
func (b *IssueBuilder) WithCodeOfConduct(url string) *IssueBuilder {
	b.codeOfConduct = &url
	return b
}

// WithCounts sets the repository stargazer, fork, and watcher counts
func (b *IssueBuilder) WithCounts(stars, forks, watchers int) *IssueBuilder {
	b.stars = stars
	b.forks = forks
	b.watchers = watchers
	return b
}

// Build creates the issue node
func (b *IssueBuilder) Build() map[string]interface{} {
	node := map[string]interface{}{
		"databaseId":   b.databaseID,
		"number":       b.number,
		"participants": map[string]interface{}{"totalCount": b.participants},
		"timeline":     map[string]interface{}{"totalCount": b.timeline},
		"title":        b.title,
		"url":          fmt.Sprintf("https://github.com/%s/%s/issues/%d", b.owner, b.repo, b.number),
		"bodyText":     nullable(b.body),
		"repository":   nil,
	}
	if b.noRepository {
		return node
	}

	var language interface{}
	if b.language != nil {
		language = map[string]interface{}{"name": *b.language}
	}
	var coc interface{}
	if b.codeOfConduct != nil {
		coc = map[string]interface{}{"url": *b.codeOfConduct}
	}

	node["repository"] = map[string]interface{}{
		"databaseId":      b.repoID,
		"description":     nullable(b.description),
		"codeOfConduct":   coc,
		"forks":           map[string]interface{}{"totalCount": b.forks},
		"primaryLanguage": language,
		"name":            b.repo,
		"nameWithOwner":   b.owner + "/" + b.repo,
		"stargazers":      map[string]interface{}{"totalCount": b.stars},
		"watchers":        map[string]interface{}{"totalCount": b.watchers},
		"url":             fmt.Sprintf("https://github.com/%s/%s", b.owner, b.repo),
	}
	return node
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// SearchResponse wraps issue nodes in a search response body.
// An empty endCursor is encoded as null.
func SearchResponse(nodes []map[string]interface{}, hasNextPage bool, endCursor string) map[string]interface{} {
	edges := make([]map[string]interface{}, 0, len(nodes))
	for _, node := range nodes {
		edges = append(edges, map[string]interface{}{"node": node})
	}

	var cursor interface{}
	if endCursor != "" {
		cursor = endCursor
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"search": map[string]interface{}{
				"pageInfo": map[string]interface{}{
					"hasNextPage": hasNextPage,
					"endCursor":   cursor,
				},
				"edges": edges,
			},
		},
	}
}

// GenerateSearchResponse builds a page of valid issues numbered startNum
// through endNum. When hasMore is set the end cursor is "cursor<endNum>".
func GenerateSearchResponse(startNum, endNum int, hasMore bool) map[string]interface{} {
	nodes := make([]map[string]interface{}, 0)
	for i := startNum; i <= endNum; i++ {
		nodes = append(nodes, NewIssueBuilder(i).Build())
	}

	cursor := ""
	if hasMore {
		cursor = fmt.Sprintf("cursor%d", endNum)
	}
	return SearchResponse(nodes, hasMore, cursor)
}
