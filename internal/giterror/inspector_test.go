package giterror

import (
	"errors"
	"fmt"
	"testing"

	relayerrors "github.com/sirseerhq/hacktoberfest-relay/internal/errors"
)

func TestGitHubErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"401 unauthorized", errors.New("401 Unauthorized"), true},
		{"403 forbidden", errors.New("403 Forbidden"), true},
		{"bad credentials", errors.New("Bad credentials"), true},
		{"wrapped auth error", fmt.Errorf("failed to query: %w", errors.New("401 Unauthorized")), true},
		{"not an auth error", errors.New("something went wrong"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"api rate limit exceeded", errors.New("API rate limit exceeded for user"), true},
		{"429 too many requests", errors.New("429 Too Many Requests"), true},
		{"not a rate limit error", errors.New("500 Internal Server Error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsBadGatewayError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"status line", errors.New("non-200 OK status code: 502 Bad Gateway"), true},
		{"lowercase text", errors.New("upstream returned bad gateway"), true},
		{"service unavailable", errors.New("503 Service Unavailable"), false},
		{"gateway timeout", errors.New("504 Gateway Timeout"), false},
		{"status code form", errors.New("unexpected status: 502"), true},
		{"http status line", errors.New("HTTP/1.1 502"), true},
		{"port containing 502", errors.New("read tcp 192.168.1.5:50234->140.82.112.6:443: read: connection reset by peer"), false},
		{"bare 502 in address", errors.New("dial tcp 10.0.0.1:502: connect: connection refused"), false},
		{"cursor containing 502", errors.New("after cursor \"Y3Vyc29yOjUwMg502\""), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsBadGatewayError(tt.err); got != tt.want {
				t.Errorf("IsBadGatewayError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), true},
		{"no such host", errors.New("lookup api.github.com: no such host"), true},
		{"i/o timeout", errors.New("read tcp: i/o timeout"), true},
		{"tls handshake", errors.New("TLS handshake timeout"), true},
		{"not a network error", errors.New("invalid response"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Custom error types for testing ErrorChainInspector
type authError struct{}

func (authError) Error() string     { return "custom auth error" }
func (authError) IsAuthError() bool { return true }

type rateLimitError struct{}

func (rateLimitError) Error() string          { return "custom rate limit error" }
func (rateLimitError) IsRateLimitError() bool { return true }

type statusError struct{ code int }

func (e statusError) Error() string   { return fmt.Sprintf("http status %d", e.code) }
func (e statusError) StatusCode() int { return e.code }

func TestErrorChainInspector(t *testing.T) {
	chainInspector := NewErrorChainInspector(NewInspector())

	tests := []struct {
		name   string
		err    error
		method string
		want   bool
	}{
		{
			name:   "custom auth error type",
			err:    authError{},
			method: "auth",
			want:   true,
		},
		{
			name:   "wrapped custom auth error",
			err:    fmt.Errorf("operation failed: %w", authError{}),
			method: "auth",
			want:   true,
		},
		{
			name:   "wrapped invalid token sentinel",
			err:    fmt.Errorf("request rejected: %w", relayerrors.ErrInvalidToken),
			method: "auth",
			want:   true,
		},
		{
			name:   "custom rate limit error type",
			err:    rateLimitError{},
			method: "ratelimit",
			want:   true,
		},
		{
			name:   "status code 502",
			err:    fmt.Errorf("request failed: %w", statusError{code: 502}),
			method: "badgateway",
			want:   true,
		},
		{
			name:   "status code 503 is not bad gateway",
			err:    statusError{code: 503},
			method: "badgateway",
			want:   false,
		},
		{
			name:   "status code wins over message text",
			err:    fmt.Errorf("502 mentioned in body: %w", statusError{code: 500}),
			method: "badgateway",
			want:   false,
		},
		{
			name:   "bad gateway sentinel",
			err:    fmt.Errorf("request failed: %w", relayerrors.ErrBadGateway),
			method: "badgateway",
			want:   true,
		},
		{
			name: "network failure with port number is not bad gateway",
			err: fmt.Errorf("network error: %w: %w", relayerrors.ErrNetworkFailure,
				errors.New("read tcp 192.168.1.5:50234->140.82.112.6:443: read: connection reset by peer")),
			method: "badgateway",
			want:   false,
		},
		{
			name:   "network failure mentioning bad gateway text",
			err:    fmt.Errorf("proxy said bad gateway: %w", relayerrors.ErrNetworkFailure),
			method: "badgateway",
			want:   false,
		},
		{
			name:   "network sentinel",
			err:    fmt.Errorf("post failed: %w", relayerrors.ErrNetworkFailure),
			method: "network",
			want:   true,
		},
		{
			name:   "falls back to string checking",
			err:    errors.New("401 Unauthorized"),
			method: "auth",
			want:   true,
		},
		{
			name:   "no match in chain or string",
			err:    errors.New("some other error"),
			method: "auth",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			switch tt.method {
			case "auth":
				got = chainInspector.IsAuthError(tt.err)
			case "ratelimit":
				got = chainInspector.IsRateLimitError(tt.err)
			case "badgateway":
				got = chainInspector.IsBadGatewayError(tt.err)
			case "network":
				got = chainInspector.IsNetworkError(tt.err)
			}
			if got != tt.want {
				t.Errorf("ErrorChainInspector.%s() = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}
