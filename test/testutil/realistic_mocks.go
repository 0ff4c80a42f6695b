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

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// GitHubLikeSearchServer serves a fixed set of issue nodes through the
// search connection the way GitHub does: bearer auth is required, "first"
// bounds the page size, and opaque cursors encode the offset of the last
// returned edge.
type GitHubLikeSearchServer struct {
	*MockServer

	mu                 sync.Mutex
	issues             []map[string]interface{}
	rateLimitRemaining int
	badGatewayEvery    int
	badGatewayBurst    int
	pending502         int
	serveNext          bool
}

// NewGitHubLikeSearchServer creates a search server over issues.
func NewGitHubLikeSearchServer(t *testing.T, issues []map[string]interface{}) *GitHubLikeSearchServer {
	t.Helper()

	mock := &GitHubLikeSearchServer{
		issues:             issues,
		rateLimitRemaining: 5000,
	}
	mock.MockServer = NewMockServer(t, mock.handle)
	return mock
}

// SetRateLimit sets how many more requests succeed before the server
// answers 403 with an exhausted rate limit.
func (m *GitHubLikeSearchServer) SetRateLimit(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitRemaining = remaining
}

// SetBadGateway makes every n-th request start a run of burst consecutive
// 502 responses; the request after a run is always served. Zero n disables
// failures.
func (m *GitHubLikeSearchServer) SetBadGateway(n, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badGatewayEvery = n
	m.badGatewayBurst = burst
}

func (m *GitHubLikeSearchServer) handle(w http.ResponseWriter, req GraphQLRequest, n int) {
	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		writeStep(w, Step{Status: http.StatusUnauthorized, Body: map[string]string{
			"message":           "Bad credentials",
			"documentation_url": "https://docs.github.com/graphql",
		}})
		return
	}

	m.mu.Lock()
	m.rateLimitRemaining--
	remaining := m.rateLimitRemaining
	inject := false
	switch {
	case m.pending502 > 0:
		m.pending502--
		inject = true
	case m.serveNext:
		m.serveNext = false
	case m.badGatewayEvery > 0 && m.badGatewayBurst > 0 && n%m.badGatewayEvery == 0:
		m.pending502 = m.badGatewayBurst - 1
		inject = true
	}
	// The request after a burst always succeeds.
	if inject && m.pending502 == 0 {
		m.serveNext = true
	}
	m.mu.Unlock()

	if remaining < 0 {
		w.Header().Set("X-RateLimit-Remaining", "0")
		writeStep(w, Step{Status: http.StatusForbidden, Body: map[string]string{
			"message": "API rate limit exceeded",
		}})
		return
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if inject {
		writeStep(w, StatusStep(http.StatusBadGateway))
		return
	}

	first := 10
	if f, ok := req.Variables["first"].(float64); ok {
		first = int(f)
	}
	if first < 1 || first > 100 {
		writeStep(w, PageStep(map[string]interface{}{
			"errors": []map[string]interface{}{{
				"message": fmt.Sprintf("Requesting %d records exceeds the `first` limit of 100 records.", first),
				"type":    "EXCESSIVE_PAGINATION",
			}},
		}))
		return
	}

	offset, err := DecodeCursor(req.Cursor())
	if err != nil {
		writeStep(w, PageStep(map[string]interface{}{
			"data":   nil,
			"errors": []map[string]interface{}{{"message": err.Error()}},
		}))
		return
	}

	m.mu.Lock()
	issues := m.issues
	m.mu.Unlock()

	end := offset + first
	if end > len(issues) {
		end = len(issues)
	}
	page := issues[offset:end]

	cursor := ""
	if len(page) > 0 {
		cursor = EncodeCursor(end)
	}
	writeStep(w, PageStep(SearchResponse(page, end < len(issues), cursor)))
}

// EncodeCursor returns the opaque cursor pointing past offset edges.
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("cursor:%d", offset)))
}

// DecodeCursor returns the offset encoded in cursor, 0 for "".
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("`%s` does not appear to be a valid cursor", cursor)
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(string(raw), "cursor:"))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("`%s` does not appear to be a valid cursor", cursor)
	}
	return offset, nil
}

// GenerateIssues builds count issue nodes numbered from 1. Every issue whose
// number is a multiple of skipEvery lacks body text and so is filtered out by
// the fetcher; zero skipEvery keeps all of them valid.
func GenerateIssues(count, skipEvery int) []map[string]interface{} {
	issues := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		b := NewIssueBuilder(i)
		if skipEvery > 0 && i%skipEvery == 0 {
			b.WithoutBody()
		}
		issues = append(issues, b.Build())
	}
	return issues
}
