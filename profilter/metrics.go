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

package profilter

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type filterMetrics struct {
	proposalsFiltered          prometheus.Counter
	proposalsBlacklisted       prometheus.Counter
	proposalsWhitelistRejected prometheus.Counter
	proposalScore              prometheus.Histogram
}

// A filter is rebuilt for each run with that run's preferences, so
// registration must tolerate collectors left behind by earlier filters
// on the same registry and reuse them

func registerCounter(
	promRegistry prometheus.Registerer,
	opts prometheus.CounterOpts,
) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if promRegistry == nil {
		return c
	}
	if err := promRegistry.Register(c); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
	}
	return c
}

func registerHistogram(
	promRegistry prometheus.Registerer,
	opts prometheus.HistogramOpts,
) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if promRegistry == nil {
		return h
	}
	if err := promRegistry.Register(h); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
	}
	return h
}

func (f *ProposalFilter) initMetrics(promRegistry prometheus.Registerer) {
	f.metrics = &filterMetrics{}
	f.metrics.proposalsFiltered = registerCounter(
		promRegistry,
		prometheus.CounterOpts{
			Name: "govpilot_filter_proposals_total",
			Help: "total proposals seen by the filter",
		},
	)
	f.metrics.proposalsBlacklisted = registerCounter(
		promRegistry,
		prometheus.CounterOpts{
			Name: "govpilot_filter_blacklisted_total",
			Help: "proposals rejected by the proposer blacklist",
		},
	)
	f.metrics.proposalsWhitelistRejected = registerCounter(
		promRegistry,
		prometheus.CounterOpts{
			Name: "govpilot_filter_whitelist_rejected_total",
			Help: "proposals rejected by the proposer whitelist",
		},
	)
	f.metrics.proposalScore = registerHistogram(
		promRegistry,
		prometheus.HistogramOpts{
			Name:    "govpilot_filter_proposal_score",
			Help:    "distribution of composite proposal scores",
			Buckets: prometheus.LinearBuckets(0.0, 0.1, 11),
		},
	)
}
