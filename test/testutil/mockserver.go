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

// Package testutil provides common test helpers for hacktoberfest-relay
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// GraphQLRequest is a decoded request body received by a mock server.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`

	Method string      `json:"-"`
	Header http.Header `json:"-"`
}

// Cursor returns the "after" variable, or "" when it is null or absent.
func (r GraphQLRequest) Cursor() string {
	after, _ := r.Variables["after"].(string)
	return after
}

// Step is one scripted reply of a MockServer. A zero Status means 200.
type Step struct {
	Status int
	Body   interface{}
}

// PageStep replies 200 with the given response body.
func PageStep(body interface{}) Step {
	return Step{Status: http.StatusOK, Body: body}
}

// StatusStep replies with the status code and its standard text.
func StatusStep(status int) Step {
	return Step{Status: status, Body: http.StatusText(status)}
}

// MockServer is an httptest server that records every GraphQL request.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GraphQLRequest
}

// NewMockServer creates a mock server around handler. The handler runs after
// the request body has been decoded and recorded. The server is closed when
// the test ends.
func NewMockServer(t *testing.T, handler func(w http.ResponseWriter, req GraphQLRequest, n int)) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		req.Method = r.Method
		req.Header = r.Header.Clone()

		m.mu.Lock()
		m.requests = append(m.requests, req)
		n := len(m.requests)
		m.mu.Unlock()

		handler(w, req, n)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewScriptedServer replies to the n-th request with steps[n-1]. Requests
// beyond the script receive a 500 and fail the test.
func NewScriptedServer(t *testing.T, steps ...Step) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, req GraphQLRequest, n int) {
		if n > len(steps) {
			t.Errorf("unexpected request #%d (script has %d steps)", n, len(steps))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeStep(w, steps[n-1])
	})
}

// NewErrorServer creates a mock server that always returns the specified status
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, req GraphQLRequest, n int) {
		writeStep(w, StatusStep(statusCode))
	})
}

// NewTransientErrorServer fails the first failCount requests with errorCode,
// then replies with body to every later request.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, body interface{}) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, req GraphQLRequest, n int) {
		if n <= failCount {
			writeStep(w, StatusStep(errorCode))
			return
		}
		writeStep(w, PageStep(body))
	})
}

// Endpoint returns the GraphQL URL of the server.
func (m *MockServer) Endpoint() string {
	return m.URL + "/graphql"
}

// RequestCount returns the number of requests received so far.
func (m *MockServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockServer) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphQLRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func writeStep(w http.ResponseWriter, step Step) {
	status := step.Status
	if status == 0 {
		status = http.StatusOK
	}

	if text, ok := step.Body.(string); ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(text))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(step.Body)
}

// AssertGraphQLRequest validates a recorded GraphQL request: a JSON POST
// carrying the bearer token and the search variables.
func AssertGraphQLRequest(t *testing.T, req GraphQLRequest, token string) {
	t.Helper()
	if req.Method != http.MethodPost {
		t.Errorf("Expected POST method, got: %s", req.Method)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
	if auth := req.Header.Get("Authorization"); auth != "Bearer "+token {
		t.Errorf("Expected Authorization: Bearer %s, got: %s", token, auth)
	}
	if ua := req.Header.Get("User-Agent"); !strings.HasPrefix(ua, "hacktoberfest-relay/") {
		t.Errorf("Unexpected User-Agent: %s", ua)
	}
	if !strings.Contains(req.Query, "search(") {
		t.Errorf("Expected a search query, got: %s", req.Query)
	}
	for _, name := range []string{"searchQuery", "first"} {
		if _, ok := req.Variables[name]; !ok {
			t.Errorf("Missing variable %q", name)
		}
	}
}
