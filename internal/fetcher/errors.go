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
	"fmt"
	"strings"

	relayerrors "github.com/sirseerhq/hacktoberfest-relay/internal/errors"
	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// ErrorKind classifies why a fetch was aborted.
type ErrorKind int

const (
	// MaxRetriesExceeded means a page kept failing with bad gateway
	// responses after the retry budget was spent.
	MaxRetriesExceeded ErrorKind = iota + 1

	// InvalidResponse means a response carried no usable data payload.
	InvalidResponse
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case MaxRetriesExceeded:
		return "max_retries_exceeded"
	case InvalidResponse:
		return "invalid_response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// sentinel returns the package-level error matching the kind.
func (k ErrorKind) sentinel() error {
	switch k {
	case MaxRetriesExceeded:
		return relayerrors.ErrMaxRetriesExceeded
	case InvalidResponse:
		return relayerrors.ErrInvalidResponse
	default:
		return nil
	}
}

// FetchError aborts a fetch. It carries the GraphQL errors most recently
// reported by the API, if any, and the payload whose request failed.
type FetchError struct {
	Kind ErrorKind

	// Errors are the GraphQL errors from the latest response that had any.
	// They may come from an earlier, otherwise successful page.
	Errors []github.ErrorDetail

	// Query is the payload of the failing request.
	Query query.Payload

	// Attempts is the number of requests issued for the failing page.
	Attempts int

	// Cause is the last executor error, set for MaxRetriesExceeded.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	var b strings.Builder

	switch e.Kind {
	case MaxRetriesExceeded:
		fmt.Fprintf(&b, "max retries exceeded after %d attempts", e.Attempts)
	case InvalidResponse:
		b.WriteString("invalid response received")
	default:
		b.WriteString("fetch failed")
	}

	if cursor := e.Query.Cursor(); cursor != nil {
		fmt.Fprintf(&b, " (after cursor %q)", *cursor)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintf(&b, "; graphql errors: %s", github.JoinErrorDetails(e.Errors))
	}

	return b.String()
}

// Unwrap exposes the kind's sentinel and the underlying cause to errors.Is and errors.As.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
