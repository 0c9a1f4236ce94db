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
	"time"

	"github.com/quorumlabs/govpilot/governance"
)

// Scoring weights and parameters.
//
// Weight distribution:
// - Urgency: 50% - Time remaining to vote is the primary signal
// - Voting power: 30% - Total voting power already committed
// - Participation: 20% - Number of distinct voters
const (
	urgencyWeight       = 0.5
	votingPowerWeight   = 0.3
	participationWeight = 0.2

	// Reference maximum voting power (10^6) for log normalization
	votingPowerLogCeiling = 6.0
	// Reference maximum participant count (10^3) for log normalization
	participationLogCeiling = 3.0

	// Floor applied to the composite score. Callers rely on scores being
	// strictly positive; an expired proposal with no votes would otherwise
	// score exactly zero.
	minProposalScore = 0.001
)

// Urgency is a step function over time remaining, not a continuous curve.
// The exact thresholds are relied on by downstream consumers for
// reproducible ranking.
const (
	urgencyExpired = 0.0
	urgencyMax     = 1.0 // <= 1 hour remaining
	urgencyHigh    = 0.8 // <= 6 hours
	urgencyMedium  = 0.6 // <= 24 hours
	urgencyLow     = 0.4 // <= 72 hours
	urgencyMin     = 0.2 // everything further out
)

// CalculateProposalScore computes the composite priority score for a single
// proposal: 0.5*urgency + 0.3*votingPower + 0.2*participation. All three
// terms are in [0,1]. The result is always finite, non-NaN and strictly
// positive (minProposalScore floor).
func (f *ProposalFilter) CalculateProposalScore(
	proposal *governance.Proposal,
) float64 {
	urgency := f.urgencyScore(proposal)
	votingPower := votingPowerScore(proposal.ScoresTotal)
	participation := participationScore(proposal.Votes)

	score := urgency*urgencyWeight +
		votingPower*votingPowerWeight +
		participation*participationWeight

	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0.0
	}
	return math.Max(score, minProposalScore)
}

// urgencyScore maps seconds-until-end to the fixed urgency steps
func (f *ProposalFilter) urgencyScore(proposal *governance.Proposal) float64 {
	remaining := time.Duration(proposal.End-f.now().Unix()) * time.Second
	switch {
	case remaining <= 0:
		return urgencyExpired
	case remaining <= time.Hour:
		return urgencyMax
	case remaining <= 6*time.Hour:
		return urgencyHigh
	case remaining <= 24*time.Hour:
		return urgencyMedium
	case remaining <= 72*time.Hour:
		return urgencyLow
	default:
		return urgencyMin
	}
}

// votingPowerScore normalizes total committed voting power to [0,1] on a
// log10 scale against the reference ceiling of 10^6
func votingPowerScore(scoresTotal float64) float64 {
	if scoresTotal <= 0 {
		return 0.0
	}
	return min(
		math.Log10(math.Max(scoresTotal, 1.0))/votingPowerLogCeiling,
		1.0,
	)
}

// participationScore normalizes the participant count to [0,1] on a log10
// scale against the reference ceiling of 10^3
func participationScore(votes int) float64 {
	if votes == 0 {
		return 0.0
	}
	return min(
		math.Log10(math.Max(float64(votes), 1.0))/participationLogCeiling,
		1.0,
	)
}
