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
	"testing"
	"time"

	"github.com/quorumlabs/govpilot/governance"
)

func testPreferences(
	t *testing.T,
	blacklisted []string,
	whitelisted []string,
) *governance.UserPreferences {
	t.Helper()
	prefs, err := governance.NewUserPreferences(
		governance.StrategyBalanced,
		0.7,
		5,
		blacklisted,
		whitelisted,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return prefs
}

func testFilter(
	t *testing.T,
	prefs *governance.UserPreferences,
) *ProposalFilter {
	t.Helper()
	f, err := NewProposalFilter(ProposalFilterConfig{
		Preferences: prefs,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func testProposal(id, author string) governance.Proposal {
	now := time.Now().Unix()
	return governance.Proposal{
		ID:          id,
		Title:       "test proposal " + id,
		Author:      author,
		Choices:     []string{"For", "Against", "Abstain"},
		Created:     now - 7200,
		Start:       now - 3600,
		End:         now + 3600,
		State:       governance.ProposalStateActive,
		ScoresTotal: 1000,
		Votes:       10,
	}
}

func TestNewProposalFilterValidation(t *testing.T) {
	if _, err := NewProposalFilter(ProposalFilterConfig{}); err == nil {
		t.Fatalf("expected error for nil preferences")
	}
	bad := &governance.UserPreferences{
		VotingStrategy:      "bogus",
		ConfidenceThreshold: 0.5,
		MaxProposalsPerRun:  3,
	}
	if _, err := NewProposalFilter(ProposalFilterConfig{Preferences: bad}); err == nil {
		t.Fatalf("expected error for invalid preferences")
	}
}

func TestFilterProposalsNilInput(t *testing.T) {
	f := testFilter(t, testPreferences(t, nil, nil))
	if _, err := f.FilterProposals(nil); err == nil {
		t.Fatalf("expected error for nil proposal list")
	}
	if _, err := f.RankProposals(nil); err == nil {
		t.Fatalf("expected error for nil proposal list")
	}
}

func TestFilterProposalsBlacklist(t *testing.T) {
	f := testFilter(t, testPreferences(t, []string{"0xbad"}, nil))
	proposals := []governance.Proposal{
		testProposal("prop-1", "0xgood"),
		testProposal("prop-2", "0xbad"),
		testProposal("prop-3", "0xother"),
	}
	filtered, err := f.FilterProposals(proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 surviving proposals, got %d", len(filtered))
	}
	for _, p := range filtered {
		if p.Author == "0xbad" {
			t.Fatalf("blacklisted proposer survived filtering")
		}
	}
}

func TestFilterProposalsWhitelist(t *testing.T) {
	f := testFilter(t, testPreferences(t, nil, []string{"0xgood"}))
	proposals := []governance.Proposal{
		testProposal("prop-1", "0xgood"),
		testProposal("prop-2", "0xother"),
	}
	filtered, err := f.FilterProposals(proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "prop-1" {
		t.Fatalf("expected only whitelisted proposer to survive: %+v", filtered)
	}
}

func TestBlacklistWinsOverWhitelist(t *testing.T) {
	// Author in both lists must be excluded
	f := testFilter(
		t,
		testPreferences(t, []string{"0xboth"}, []string{"0xboth", "0xgood"}),
	)
	proposals := []governance.Proposal{
		testProposal("prop-1", "0xboth"),
		testProposal("prop-2", "0xgood"),
	}
	filtered, err := f.FilterProposals(proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "prop-2" {
		t.Fatalf("expected blacklist to win over whitelist: %+v", filtered)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	f := testFilter(t, testPreferences(t, []string{"0xbad"}, nil))
	proposals := []governance.Proposal{
		testProposal("prop-1", "0xa"),
		testProposal("prop-2", "0xbad"),
		testProposal("prop-3", "0xb"),
		testProposal("prop-4", "0xc"),
	}
	filtered, err := f.FilterProposals(proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"prop-1", "prop-3", "prop-4"}
	if len(filtered) != len(expected) {
		t.Fatalf("expected %d proposals, got %d", len(expected), len(filtered))
	}
	for i, id := range expected {
		if filtered[i].ID != id {
			t.Fatalf(
				"expected %s at position %d, got %s",
				id,
				i,
				filtered[i].ID,
			)
		}
	}
}

func TestFilterEmptyInput(t *testing.T) {
	f := testFilter(t, testPreferences(t, nil, nil))
	filtered, err := f.FilterProposals([]governance.Proposal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("expected empty output for empty input")
	}
	ranked, err := f.RankProposals([]governance.Proposal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking for empty input")
	}
}

func TestRankProposalsDescending(t *testing.T) {
	now := time.Unix(1700000000, 0)
	f, err := NewProposalFilter(ProposalFilterConfig{
		Preferences: testPreferences(t, nil, nil),
		NowFunc:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// urgent: ends in 30 minutes; distant: ends in 2 days
	urgent := testProposal("urgent", "0xa")
	urgent.End = now.Unix() + 1800
	distant := testProposal("distant", "0xb")
	distant.End = now.Unix() + 2*24*3600
	ranked, err := f.RankProposals([]governance.Proposal{distant, urgent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ranked[0].ID != "urgent" {
		t.Fatalf("expected urgent proposal ranked first, got %s", ranked[0].ID)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected ranking to preserve length")
	}
}

func TestRankProposalsStable(t *testing.T) {
	// Identical proposals score identically; stable sort must keep input order
	f := testFilter(t, testPreferences(t, nil, nil))
	a := testProposal("prop-a", "0xa")
	b := testProposal("prop-b", "0xb")
	ranked, err := f.RankProposals([]governance.Proposal{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ranked[0].ID != "prop-a" || ranked[1].ID != "prop-b" {
		t.Fatalf(
			"expected stable ordering for tied scores: %s, %s",
			ranked[0].ID,
			ranked[1].ID,
		)
	}
}

func TestGetFilteringMetrics(t *testing.T) {
	f := testFilter(t, testPreferences(t, []string{"0xbad"}, []string{"0xgood"}))
	original := []governance.Proposal{
		testProposal("prop-1", "0xgood"),
		testProposal("prop-2", "0xbad"),
		testProposal("prop-3", "0xother"),
	}
	filtered, err := f.FilterProposals(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics := f.GetFilteringMetrics(original, filtered)
	if metrics.OriginalCount != 3 || metrics.FilteredCount != 1 {
		t.Fatalf("unexpected counts: %+v", metrics)
	}
	if metrics.BlacklistedCount != 1 {
		t.Fatalf("expected 1 blacklisted, got %d", metrics.BlacklistedCount)
	}
	if metrics.WhitelistFilteredCount != 1 {
		t.Fatalf(
			"expected 1 whitelist-rejected, got %d",
			metrics.WhitelistFilteredCount,
		)
	}
	if metrics.FilterEfficiency < 0.33 || metrics.FilterEfficiency > 0.34 {
		t.Fatalf("unexpected efficiency: %v", metrics.FilterEfficiency)
	}
	if !metrics.HasWhitelist || !metrics.HasBlacklist {
		t.Fatalf("expected both list flags set: %+v", metrics)
	}
}

func TestGetFilteringMetricsEmptyOriginal(t *testing.T) {
	f := testFilter(t, testPreferences(t, nil, nil))
	metrics := f.GetFilteringMetrics(
		[]governance.Proposal{},
		[]governance.Proposal{},
	)
	if metrics.FilterEfficiency != 0.0 {
		t.Fatalf(
			"expected zero efficiency for empty input, got %v",
			metrics.FilterEfficiency,
		)
	}
}

// GetFilteringMetrics must tolerate lists from a different filtering pass
func TestGetFilteringMetricsForeignLists(t *testing.T) {
	f := testFilter(t, testPreferences(t, []string{"0xbad"}, nil))
	original := []governance.Proposal{
		testProposal("prop-1", "0xbad"),
		testProposal("prop-2", "0xok"),
	}
	// filtered list that did not come from this filter
	foreign := []governance.Proposal{
		testProposal("prop-9", "0xelse"),
	}
	metrics := f.GetFilteringMetrics(original, foreign)
	if metrics.OriginalCount != 2 || metrics.FilteredCount != 1 {
		t.Fatalf("unexpected counts: %+v", metrics)
	}
	if metrics.BlacklistedCount != 1 {
		t.Fatalf("expected 1 blacklisted, got %d", metrics.BlacklistedCount)
	}
}
