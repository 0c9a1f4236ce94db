// Copyright 2026 Quorum Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package govpilot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type agentMetrics struct {
	runsTotal         *prometheus.CounterVec
	runErrorsTotal    prometheus.Counter
	proposalsAnalyzed prometheus.Counter
	votesCast         *prometheus.CounterVec
	runDuration       prometheus.Histogram
}

func (a *Agent) registerMetrics() {
	promautoFactory := promauto.With(a.config.promRegistry)
	a.metrics.runsTotal = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govpilot_agent_runs_total",
			Help: "total agent runs by resulting activity classification",
		},
		[]string{"activity"},
	)
	a.metrics.runErrorsTotal = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "govpilot_agent_run_errors_total",
			Help: "total non-fatal errors recorded across agent runs",
		},
	)
	a.metrics.proposalsAnalyzed = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "govpilot_agent_proposals_analyzed_total",
			Help: "total proposals analyzed across agent runs",
		},
	)
	a.metrics.votesCast = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govpilot_agent_votes_cast_total",
			Help: "total vote decisions retained, by vote type",
		},
		[]string{"vote"},
	)
	a.metrics.runDuration = promautoFactory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "govpilot_agent_run_duration_seconds",
			Help:    "duration of agent runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
}
