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

// Package metrics holds the Prometheus counters recorded during a fetch.
//
// Each Metrics value owns its registry, so a process (or a test) can run
// several fetches without colliding on metric registration. After a run the
// CLI can flush the registry to a node_exporter textfile.
//
// Exported metrics:
//   - relay_requests_total{outcome}: executor calls by outcome (success, bad_gateway, error)
//   - relay_retries_total: bad gateway retries
//   - relay_pages_total: pages accepted by the fetch loop
//   - relay_records_total: edges flattened into records
//   - relay_edges_rejected_total{reason}: edges dropped by the filter
//   - relay_fetch_failures_total{kind}: aborted fetches by failure kind
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeBadGateway = "bad_gateway"
	OutcomeError      = "error"
)

// Metrics is the set of counters updated by the fetcher.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	Retries       prometheus.Counter
	Pages         prometheus.Counter
	Records       prometheus.Counter
	RejectedEdges *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "GraphQL requests issued, by outcome",
		}, []string{"outcome"}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_retries_total",
			Help: "Requests reissued after an upstream bad gateway",
		}),
		Pages: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_pages_total",
			Help: "Search result pages processed",
		}),
		Records: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_records_total",
			Help: "Search edges flattened into project records",
		}),
		RejectedEdges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_edges_rejected_total",
			Help: "Search edges skipped by the project filter, by reason",
		}, []string{"reason"}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_fetch_failures_total",
			Help: "Fetches aborted, by failure kind",
		}, []string{"kind"}),
	}
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the Prometheus text format,
// atomically replacing path. Intended for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Totals is a point-in-time copy of the counters.
type Totals struct {
	Requests      int
	Retries       int
	Pages         int
	Records       int
	RejectedEdges map[string]int
}

// Totals gathers the current counter values from the registry.
func (m *Metrics) Totals() (Totals, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return Totals{}, fmt.Errorf("failed to gather metrics: %w", err)
	}

	totals := Totals{RejectedEdges: make(map[string]int)}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := int(metric.GetCounter().GetValue())
			switch family.GetName() {
			case "relay_requests_total":
				totals.Requests += value
			case "relay_retries_total":
				totals.Retries += value
			case "relay_pages_total":
				totals.Pages += value
			case "relay_records_total":
				totals.Records += value
			case "relay_edges_rejected_total":
				for _, label := range metric.GetLabel() {
					if label.GetName() == "reason" {
						totals.RejectedEdges[label.GetValue()] += value
					}
				}
			}
		}
	}
	return totals, nil
}
