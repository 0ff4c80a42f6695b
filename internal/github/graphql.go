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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	relayerrors "github.com/sirseerhq/hacktoberfest-relay/internal/errors"
	"github.com/sirseerhq/hacktoberfest-relay/internal/giterror"
	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// DefaultEndpoint is GitHub's public GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// maxErrorBody bounds how much of a non-200 body is kept on a StatusError.
const maxErrorBody = 1024

// StatusError reports a non-200 HTTP response from the GraphQL endpoint.
type StatusError struct {
	Code        int
	Status      string
	Body        string
	RateLimited bool
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("non-200 OK status code: %s", e.Status)
	}
	return fmt.Sprintf("non-200 OK status code: %s body: %q", e.Status, e.Body)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Unwrap maps the status onto the matching sentinel so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusBadGateway:
		return relayerrors.ErrBadGateway
	case http.StatusTooManyRequests:
		return relayerrors.ErrRateLimit
	case http.StatusUnauthorized:
		return relayerrors.ErrInvalidToken
	case http.StatusForbidden:
		if e.RateLimited {
			return relayerrors.ErrRateLimit
		}
		return relayerrors.ErrInvalidToken
	default:
		return nil
	}
}

// HTTPExecutor implements Executor by POSTing payloads to a GraphQL endpoint.
// Unlike a typed GraphQL client it keeps the raw data/errors split, so that a
// response carrying both partial data and errors reaches the caller intact.
type HTTPExecutor struct {
	endpoint   string
	httpClient *http.Client
	inspector  giterror.Inspector
}

// NewHTTPExecutor creates an executor for the given token and endpoint.
// The client is configured with:
//   - Bearer authentication via the provided token
//   - A per-request timeout (zero disables it)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewHTTPExecutor(token, endpoint string, timeout time.Duration) *HTTPExecutor {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPExecutor{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				token: token,
				base:  transport,
			},
		},
		inspector: giterror.NewInspector(),
	}
}

// Request implements Executor.
func (e *HTTPExecutor) Request(ctx context.Context, payload query.Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, e.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.newStatusError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	return &out, nil
}

// mapTransportError maps errors from the HTTP round trip to domain errors
// with actionable messages.
func (e *HTTPExecutor) mapTransportError(err error) error {
	if e.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w: %w",
			relayerrors.ErrNetworkFailure, err)
	}
	return fmt.Errorf("GraphQL request failed: %w", err)
}

// newStatusError drains a bounded part of the body into a StatusError.
func (e *HTTPExecutor) newStatusError(resp *http.Response) *StatusError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := strings.TrimSpace(string(data))

	rateLimited := resp.Header.Get("X-RateLimit-Remaining") == "0" ||
		(body != "" && e.inspector.IsRateLimitError(errors.New(body)))

	return &StatusError{
		Code:        resp.StatusCode,
		Status:      resp.Status,
		Body:        body,
		RateLimited: rateLimited,
	}
}
