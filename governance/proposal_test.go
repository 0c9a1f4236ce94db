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

package governance

import "testing"

func validProposal() Proposal {
	return Proposal{
		ID:          "prop-1",
		Title:       "Fund grants round 7",
		Author:      "0xabc",
		Choices:     []string{"For", "Against", "Abstain"},
		Created:     1000,
		Start:       2000,
		End:         3000,
		State:       ProposalStateActive,
		Scores:      []float64{100, 50, 10},
		ScoresTotal: 160,
		Votes:       12,
		Quorum:      100,
	}
}

func TestProposalValid(t *testing.T) {
	p := validProposal()
	if err := p.Valid(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProposalInvalid(t *testing.T) {
	testDefs := []struct {
		name   string
		mutate func(*Proposal)
	}{
		{
			name:   "empty ID",
			mutate: func(p *Proposal) { p.ID = "" },
		},
		{
			name:   "created after start",
			mutate: func(p *Proposal) { p.Created = 2500 },
		},
		{
			name:   "start after end",
			mutate: func(p *Proposal) { p.Start = 3500 },
		},
		{
			name:   "unknown state",
			mutate: func(p *Proposal) { p.State = "archived" },
		},
		{
			name:   "negative scores total",
			mutate: func(p *Proposal) { p.ScoresTotal = -1 },
		},
		{
			name:   "negative votes",
			mutate: func(p *Proposal) { p.Votes = -1 },
		},
		{
			name:   "negative quorum",
			mutate: func(p *Proposal) { p.Quorum = -1 },
		},
		{
			name:   "score/choice mismatch",
			mutate: func(p *Proposal) { p.Scores = []float64{1, 2} },
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p := validProposal()
			testDef.mutate(&p)
			if err := p.Valid(); err == nil {
				t.Fatalf("expected error, got none")
			}
		})
	}
}

func TestNewUserPreferences(t *testing.T) {
	prefs, err := NewUserPreferences(
		StrategyBalanced,
		0.7,
		5,
		[]string{"0xbad"},
		[]string{"0xgood", "0xbad"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prefs.IsBlacklisted("0xbad") {
		t.Fatalf("expected 0xbad to be blacklisted")
	}
	if !prefs.IsWhitelisted("0xgood") {
		t.Fatalf("expected 0xgood to be whitelisted")
	}
	if prefs.IsWhitelisted("0xother") {
		t.Fatalf("expected 0xother to be rejected by non-empty whitelist")
	}
}

func TestNewUserPreferencesValidation(t *testing.T) {
	if _, err := NewUserPreferences("yolo", 0.5, 5, nil, nil); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
	if _, err := NewUserPreferences(StrategyBalanced, 1.5, 5, nil, nil); err == nil {
		t.Fatalf("expected error for threshold above 1")
	}
	if _, err := NewUserPreferences(StrategyBalanced, 0.5, 0, nil, nil); err == nil {
		t.Fatalf("expected error for zero max proposals")
	}
}

func TestEmptyWhitelistAllowsEveryone(t *testing.T) {
	prefs, err := NewUserPreferences(StrategyConservative, 0.5, 3, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prefs.IsWhitelisted("0xanyone") {
		t.Fatalf("expected empty whitelist to allow everyone")
	}
}
