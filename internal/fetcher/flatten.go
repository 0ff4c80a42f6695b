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

package fetcher

import (
	"strings"

	"github.com/shurcooL/graphql"

	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
)

// Reasons an edge is left out of the results.
const (
	rejectMissingNode        = "missing_node"
	rejectMissingRepository  = "missing_repository"
	rejectMissingLanguage    = "missing_language"
	rejectMissingDescription = "missing_description"
	rejectMissingBody        = "missing_body"
)

// rejectReason returns why the issue cannot become a Project, or "" if it can.
func rejectReason(issue *github.Issue) string {
	switch {
	case issue.IsEmpty():
		return rejectMissingNode
	case issue.Repository == nil:
		return rejectMissingRepository
	case issue.Repository.PrimaryLanguage == nil || blank(&issue.Repository.PrimaryLanguage.Name):
		return rejectMissingLanguage
	case blank(issue.Repository.Description):
		return rejectMissingDescription
	case blank(issue.BodyText):
		return rejectMissingBody
	default:
		return ""
	}
}

// blank reports whether s is absent, empty, or whitespace only.
func blank(s *graphql.String) bool {
	return s == nil || strings.TrimSpace(string(*s)) == ""
}

// flatten maps an accepted issue field-for-field onto a Project.
// The code of conduct URL is the only field with a fallback.
func flatten(issue *github.Issue) Project {
	repo := issue.Repository

	var cocURL string
	if repo.CodeOfConduct != nil && repo.CodeOfConduct.URL != nil {
		cocURL = string(*repo.CodeOfConduct.URL)
	}

	return Project{
		IssueDatabaseID:      issue.DatabaseID,
		IssueNumber:          int(issue.Number),
		IssueParticipants:    int(issue.Participants.TotalCount),
		IssueTimelineEvents:  int(issue.Timeline.TotalCount),
		IssueTitle:           string(issue.Title),
		IssueURL:             string(issue.URL),
		RepoDatabaseID:       repo.DatabaseID,
		RepoDescription:      string(*repo.Description),
		RepoCodeOfConductURL: cocURL,
		RepoForks:            int(repo.Forks.TotalCount),
		RepoLanguage:         string(repo.PrimaryLanguage.Name),
		RepoName:             string(repo.Name),
		RepoNameWithOwner:    string(repo.NameWithOwner),
		RepoStars:            int(repo.Stargazers.TotalCount),
		RepoWatchers:         int(repo.Watchers.TotalCount),
		RepoURL:              string(repo.URL),
	}
}
