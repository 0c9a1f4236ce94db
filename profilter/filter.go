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

// Package profilter implements deterministic filtering and ranking of
// governance proposal batches against a single set of user preferences.
// Filtering is order-preserving and side-effect-free aside from logging
// and metrics; ranking is a stable sort on the composite proposal score.
package profilter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quorumlabs/govpilot/governance"
)

// ProposalFilterConfig holds the filter's construction parameters
type ProposalFilterConfig struct {
	Preferences  *governance.UserPreferences
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// NowFunc overrides the clock used for urgency scoring (tests)
	NowFunc func() time.Time
}

// ProposalFilter applies one user's allow/deny lists and priority scoring
// to proposal batches. It holds no mutable state between calls.
type ProposalFilter struct {
	prefs   *governance.UserPreferences
	logger  *slog.Logger
	metrics *filterMetrics
	nowFunc func() time.Time
}

// NewProposalFilter creates a ProposalFilter. The preferences are validated
// up front; malformed preferences are a programmer error and fail
// construction rather than being coerced.
func NewProposalFilter(config ProposalFilterConfig) (*ProposalFilter, error) {
	if config.Preferences == nil {
		return nil, errors.New("proposal filter requires preferences")
	}
	if err := config.Preferences.Valid(); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}
	f := &ProposalFilter{
		prefs:   config.Preferences,
		logger:  config.Logger,
		nowFunc: config.NowFunc,
	}
	if f.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		f.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if f.nowFunc == nil {
		f.nowFunc = time.Now
	}
	if config.PromRegistry != nil {
		f.initMetrics(config.PromRegistry)
	}
	return f, nil
}

func (f *ProposalFilter) now() time.Time {
	return f.nowFunc()
}

// FilterProposals applies the blacklist and whitelist to a proposal batch.
// The blacklist is evaluated first and always wins, even when the same
// author also appears in the whitelist. Relative order of surviving
// proposals is preserved. A nil slice is a programmer error.
func (f *ProposalFilter) FilterProposals(
	proposals []governance.Proposal,
) ([]governance.Proposal, error) {
	if proposals == nil {
		return nil, errors.New("proposal list must not be nil")
	}
	filtered := make([]governance.Proposal, 0, len(proposals))
	var blacklisted, whitelistRejected int
	for _, proposal := range proposals {
		if f.prefs.IsBlacklisted(proposal.Author) {
			blacklisted++
			f.logger.Debug(
				"proposal rejected: blacklisted proposer",
				"component", "profilter",
				"proposal_id", proposal.ID,
				"author", proposal.Author,
			)
			continue
		}
		if !f.prefs.IsWhitelisted(proposal.Author) {
			whitelistRejected++
			f.logger.Debug(
				"proposal rejected: proposer not in whitelist",
				"component", "profilter",
				"proposal_id", proposal.ID,
				"author", proposal.Author,
			)
			continue
		}
		filtered = append(filtered, proposal)
	}
	f.logger.Info(
		"filtered proposals",
		"component", "profilter",
		"input_count", len(proposals),
		"output_count", len(filtered),
		"blacklisted", blacklisted,
		"whitelist_rejected", whitelistRejected,
	)
	if f.metrics != nil {
		f.metrics.proposalsFiltered.Add(float64(len(proposals)))
		f.metrics.proposalsBlacklisted.Add(float64(blacklisted))
		f.metrics.proposalsWhitelistRejected.Add(float64(whitelistRejected))
	}
	return filtered, nil
}

// proposalScore pairs a proposal with its computed score for sorting
type proposalScore struct {
	proposal governance.Proposal
	score    float64
}

// RankProposals orders a proposal batch by descending composite score.
// The sort is stable: proposals with equal scores keep their relative
// input order. A nil slice is a programmer error.
func (f *ProposalFilter) RankProposals(
	proposals []governance.Proposal,
) ([]governance.Proposal, error) {
	if proposals == nil {
		return nil, errors.New("proposal list must not be nil")
	}
	scored := make([]proposalScore, 0, len(proposals))
	for _, proposal := range proposals {
		score := f.CalculateProposalScore(&proposal)
		if f.metrics != nil {
			f.metrics.proposalScore.Observe(score)
		}
		scored = append(scored, proposalScore{
			proposal: proposal,
			score:    score,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	ranked := make([]governance.Proposal, 0, len(scored))
	for _, entry := range scored {
		ranked = append(ranked, entry.proposal)
	}
	f.logger.Debug(
		"ranked proposals",
		"component", "profilter",
		"count", len(ranked),
	)
	return ranked, nil
}

// FilteringMetrics summarizes one filtering pass for reporting
type FilteringMetrics struct {
	OriginalCount          int
	FilteredCount          int
	BlacklistedCount       int
	WhitelistFilteredCount int
	FilterEfficiency       float64
	HasWhitelist           bool
	HasBlacklist           bool
}

// GetFilteringMetrics recomputes filtering counts from an original and a
// filtered batch. It does not trust any intermediate state from
// FilterProposals, so it tolerates lists produced by a different pass.
func (f *ProposalFilter) GetFilteringMetrics(
	original []governance.Proposal,
	filtered []governance.Proposal,
) FilteringMetrics {
	metrics := FilteringMetrics{
		OriginalCount: len(original),
		FilteredCount: len(filtered),
		HasWhitelist:  len(f.prefs.WhitelistedProposers) > 0,
		HasBlacklist:  len(f.prefs.BlacklistedProposers) > 0,
	}
	for _, proposal := range original {
		if f.prefs.IsBlacklisted(proposal.Author) {
			metrics.BlacklistedCount++
		} else if !f.prefs.IsWhitelisted(proposal.Author) {
			metrics.WhitelistFilteredCount++
		}
	}
	if metrics.OriginalCount > 0 {
		metrics.FilterEfficiency = float64(
			metrics.FilteredCount,
		) / float64(metrics.OriginalCount)
	}
	return metrics
}
