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
	"context"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/hacktoberfest-relay/internal/giterror"
	"github.com/sirseerhq/hacktoberfest-relay/internal/github"
	"github.com/sirseerhq/hacktoberfest-relay/internal/metrics"
	"github.com/sirseerhq/hacktoberfest-relay/internal/query"
)

// Fetcher pages through the search API and collects Project records.
// A Fetcher is not safe for concurrent use.
type Fetcher struct {
	executor  github.Executor
	composer  *query.Composer
	config    Config
	inspector giterror.Inspector
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConfig sets the fetch configuration. A negative MaxRetries is treated as zero.
func WithConfig(cfg Config) Option {
	return func(f *Fetcher) {
		if cfg.MaxRetries < 0 {
			cfg.MaxRetries = 0
		}
		f.config = cfg
	}
}

// WithComposer sets the query composer, e.g. to change the search terms.
func WithComposer(c *query.Composer) Option {
	return func(f *Fetcher) {
		f.composer = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMetrics sets the metrics the fetcher records into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// New creates a Fetcher issuing requests through exec.
func New(exec github.Executor, opts ...Option) *Fetcher {
	f := &Fetcher{
		executor:  exec,
		composer:  query.NewComposer(""),
		config:    DefaultConfig(),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.metrics == nil {
		f.metrics = metrics.New()
	}
	return f
}

// fetchState is the pagination state of a single FetchAll call.
type fetchState struct {
	started     bool
	hasNextPage bool
	cursor      *string

	// collectedErrors holds the GraphQL errors of the latest response
	// that reported any, for attachment to a later FetchError.
	collectedErrors []github.ErrorDetail

	page int
}

// incomplete reports whether another page must be requested.
func (s *fetchState) incomplete() bool {
	return !s.started || s.hasNextPage
}

// FetchAll requests every page of search results and returns the accepted
// projects in page order, then edge order within a page.
//
// On failure no records are returned. The error is a *FetchError when the
// retry budget for a page ran out or a response had no data; any other
// executor error is returned as the executor reported it.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Project, error) {
	state := &fetchState{}
	projects := make([]Project, 0)

	f.logger.Info().
		Str("search_query", f.composer.SearchQuery).
		Int("max_retries", f.config.MaxRetries).
		Msg("starting project fetch")

	for state.incomplete() {
		state.started = true
		state.page++

		payload, resp, attempts, err := f.requestWithRetries(ctx, state)
		if err != nil {
			f.recordFailure(err, state)
			return nil, err
		}

		if f.responseInvalid(resp, state) {
			err := &FetchError{
				Kind:     InvalidResponse,
				Errors:   state.collectedErrors,
				Query:    payload,
				Attempts: attempts,
			}
			f.recordFailure(err, state)
			return nil, err
		}

		search := resp.Data.Search
		state.hasNextPage = bool(search.PageInfo.HasNextPage)
		state.cursor = nil
		if search.PageInfo.EndCursor != nil {
			cursor := string(*search.PageInfo.EndCursor)
			state.cursor = &cursor
		}

		before := len(projects)
		projects = f.appendProjects(projects, search.Edges)
		f.metrics.Pages.Inc()

		f.logger.Debug().
			Int("page", state.page).
			Int("edges", len(search.Edges)).
			Int("accepted", len(projects)-before).
			Bool("has_next_page", state.hasNextPage).
			Msg("processed page")
	}

	f.logger.Info().
		Int("pages", state.page).
		Int("projects", len(projects)).
		Msg("project fetch complete")

	return projects, nil
}

// requestWithRetries issues one page request and reports how many attempts it
// took. A bad gateway reissues the same payload until MaxRetries retries have
// been spent.
func (f *Fetcher) requestWithRetries(ctx context.Context, state *fetchState) (query.Payload, *github.Response, int, error) {
	payload := f.composer.Compose(query.NodeLimit, state.cursor)
	retries := 0

	for {
		f.logger.Debug().Int("page", state.page).Int("attempt", retries+1).Msg("requesting page")

		resp, err := f.executor.Request(ctx, payload)
		if err == nil {
			f.metrics.Requests.WithLabelValues(metrics.OutcomeSuccess).Inc()
			return payload, resp, retries + 1, nil
		}

		if !f.inspector.IsBadGatewayError(err) {
			f.metrics.Requests.WithLabelValues(metrics.OutcomeError).Inc()
			return payload, nil, retries + 1, err
		}
		f.metrics.Requests.WithLabelValues(metrics.OutcomeBadGateway).Inc()

		if retries >= f.config.MaxRetries {
			return payload, nil, retries + 1, &FetchError{
				Kind:     MaxRetriesExceeded,
				Errors:   state.collectedErrors,
				Query:    payload,
				Attempts: retries + 1,
				Cause:    err,
			}
		}

		retries++
		f.metrics.Retries.Inc()
		f.logger.Warn().
			Err(err).
			Int("page", state.page).
			Int("retry", retries).
			Int("max_retries", f.config.MaxRetries).
			Msg("bad gateway, retrying page")
	}
}

// responseInvalid records any GraphQL errors on the state and reports whether
// the response lacks a usable data payload. Data alongside errors is valid.
// A page claiming more results without a cursor is invalid too, since the
// next request would silently restart from the first page.
func (f *Fetcher) responseInvalid(resp *github.Response, state *fetchState) bool {
	if resp == nil {
		return true
	}
	if len(resp.Errors) > 0 {
		state.collectedErrors = resp.Errors
		f.logger.Warn().
			Int("page", state.page).
			Str("errors", github.JoinErrorDetails(resp.Errors)).
			Msg("response reported GraphQL errors")
	}
	if resp.Data == nil || resp.Data.Search == nil {
		return true
	}
	info := resp.Data.Search.PageInfo
	return bool(info.HasNextPage) && (info.EndCursor == nil || *info.EndCursor == "")
}

// appendProjects flattens the accepted edges onto projects in edge order.
func (f *Fetcher) appendProjects(projects []Project, edges []github.Edge) []Project {
	for i := range edges {
		issue := edges[i].Node
		if reason := rejectReason(issue); reason != "" {
			f.metrics.RejectedEdges.WithLabelValues(reason).Inc()
			f.logger.Debug().Int("edge", i).Str("reason", reason).Msg("skipping search edge")
			continue
		}
		projects = append(projects, flatten(issue))
		f.metrics.Records.Inc()
	}
	return projects
}

// recordFailure logs and counts an aborted fetch.
func (f *Fetcher) recordFailure(err error, state *fetchState) {
	kind := "executor"
	if fe, ok := err.(*FetchError); ok {
		kind = fe.Kind.String()
	}
	f.metrics.FetchFailures.WithLabelValues(kind).Inc()
	f.logger.Error().Err(err).Int("page", state.page).Str("kind", kind).Msg("project fetch failed")
}
