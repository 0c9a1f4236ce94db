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
	"math"
	"testing"
	"time"
)

func fixedClockFilter(t *testing.T, now time.Time) *ProposalFilter {
	t.Helper()
	f, err := NewProposalFilter(ProposalFilterConfig{
		Preferences: testPreferences(t, nil, nil),
		NowFunc:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestUrgencyStepFunction(t *testing.T) {
	now := time.Unix(1700000000, 0)
	f := fixedClockFilter(t, now)
	testDefs := []struct {
		name      string
		remaining time.Duration
		expected  float64
	}{
		{"already ended", -time.Hour, urgencyExpired},
		{"30 minutes left", 30 * time.Minute, urgencyMax},
		{"exactly 1 hour", time.Hour, urgencyMax},
		{"3 hours left", 3 * time.Hour, urgencyHigh},
		{"exactly 6 hours", 6 * time.Hour, urgencyHigh},
		{"12 hours left", 12 * time.Hour, urgencyMedium},
		{"exactly 24 hours", 24 * time.Hour, urgencyMedium},
		{"48 hours left", 48 * time.Hour, urgencyLow},
		{"exactly 72 hours", 72 * time.Hour, urgencyLow},
		{"one week left", 7 * 24 * time.Hour, urgencyMin},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p := testProposal("prop-1", "0xa")
			p.End = now.Add(testDef.remaining).Unix()
			got := f.urgencyScore(&p)
			if got != testDef.expected {
				t.Fatalf(
					"expected urgency %v for %s, got %v",
					testDef.expected,
					testDef.name,
					got,
				)
			}
		})
	}
}

func TestUrgencyDominatesScore(t *testing.T) {
	// A proposal ending in 30 minutes must outscore one ending in 2 days,
	// all else equal
	now := time.Unix(1700000000, 0)
	f := fixedClockFilter(t, now)
	soon := testProposal("soon", "0xa")
	soon.End = now.Add(30 * time.Minute).Unix()
	later := testProposal("later", "0xa")
	later.End = now.Add(48 * time.Hour).Unix()
	if f.CalculateProposalScore(&soon) <= f.CalculateProposalScore(&later) {
		t.Fatalf("expected sooner-ending proposal to score higher")
	}
}

func TestScoreBounds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	f := fixedClockFilter(t, now)
	testDefs := []struct {
		name        string
		end         int64
		scoresTotal float64
		votes       int
	}{
		{"expired with nothing", now.Unix() - 100, 0, 0},
		{"active with nothing", now.Add(time.Hour).Unix(), 0, 0},
		{"huge voting power", now.Add(time.Hour).Unix(), 1e12, 100000},
		{"tiny voting power", now.Add(time.Hour).Unix(), 0.5, 1},
		{"typical", now.Add(12 * time.Hour).Unix(), 50000, 120},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			p := testProposal("prop-1", "0xa")
			p.End = testDef.end
			p.ScoresTotal = testDef.scoresTotal
			p.Votes = testDef.votes
			score := f.CalculateProposalScore(&p)
			if math.IsNaN(score) || math.IsInf(score, 0) {
				t.Fatalf("expected finite score, got %v", score)
			}
			if score <= 0.0 {
				t.Fatalf("expected strictly positive score, got %v", score)
			}
			// Weighted sum of terms in [0,1] cannot exceed 1
			if score > 1.0 {
				t.Fatalf("expected score <= 1, got %v", score)
			}
		})
	}
}

func TestVotingPowerScore(t *testing.T) {
	if votingPowerScore(0) != 0.0 {
		t.Fatalf("expected zero score for zero voting power")
	}
	if votingPowerScore(-5) != 0.0 {
		t.Fatalf("expected zero score for negative voting power")
	}
	// 10^6 hits the normalization ceiling
	if got := votingPowerScore(1e6); got != 1.0 {
		t.Fatalf("expected score 1.0 at 10^6 voting power, got %v", got)
	}
	// Beyond the ceiling stays clamped
	if got := votingPowerScore(1e9); got != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", got)
	}
	// 10^3 is halfway up the log scale
	if got := votingPowerScore(1000); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected score 0.5 at 10^3 voting power, got %v", got)
	}
	// Sub-1 values clamp to log10(1) = 0
	if got := votingPowerScore(0.5); got != 0.0 {
		t.Fatalf("expected score 0.0 below 1 voting power, got %v", got)
	}
}

func TestParticipationScore(t *testing.T) {
	if participationScore(0) != 0.0 {
		t.Fatalf("expected zero score for zero votes")
	}
	if got := participationScore(1000); got != 1.0 {
		t.Fatalf("expected score 1.0 at 10^3 votes, got %v", got)
	}
	if got := participationScore(1000000); got != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", got)
	}
	// ~10^1.5 votes is halfway up the log scale
	if got := participationScore(32); math.Abs(got-0.501) > 0.01 {
		t.Fatalf("expected score near 0.5 at 32 votes, got %v", got)
	}
}
