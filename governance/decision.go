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

import (
	"fmt"
	"math"
	"strings"
)

// VoteType is the vote choice on a governance proposal
type VoteType string

const (
	VoteFor     VoteType = "FOR"
	VoteAgainst VoteType = "AGAINST"
	VoteAbstain VoteType = "ABSTAIN"
)

// Valid returns true if the VoteType is a known vote choice
func (v VoteType) Valid() bool {
	switch v {
	case VoteFor, VoteAgainst, VoteAbstain:
		return true
	default:
		return false
	}
}

// ChoiceIndex maps the vote to the proposal source's 1-based choice ordinal
// (Snapshot convention: FOR=1, AGAINST=2, ABSTAIN=3)
func (v VoteType) ChoiceIndex() int {
	switch v {
	case VoteFor:
		return 1
	case VoteAgainst:
		return 2
	case VoteAbstain:
		return 3
	default:
		return 0
	}
}

// ParseVoteType parses a stored vote string, tolerating case differences.
// Used on the lenient history-decode path.
func ParseVoteType(s string) (VoteType, bool) {
	v := VoteType(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.Valid()
}

// RiskLevel is the decision-maker's risk assessment for a vote
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid returns true if the RiskLevel is a known level
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// MinReasoningLength is the minimum number of characters required for a
// decision's reasoning to be considered meaningful
const MinReasoningLength = 10

// VoteDecision is the outcome of the external decision step for one
// proposal. Execution and attestation fields are set after creation as the
// vote is (or is not) carried out; everything else is immutable.
type VoteDecision struct {
	ProposalID     string
	Vote           VoteType
	Confidence     float64
	Reasoning      string
	RiskAssessment RiskLevel
	StrategyUsed   VotingStrategy

	// Execution outcome
	Executed        bool
	TransactionHash string
	Error           string

	// Attestation outcome
	AttestationStatus string
	AttestationTxHash string
	AttestationUID    string
	AttestationError  string
}

// NewVoteDecision builds a validated VoteDecision. Confidence is rounded to
// 3 decimal places; an empty risk assessment defaults to MEDIUM. Invalid
// values fail here so they can never reach persistence.
func NewVoteDecision(
	proposalID string,
	vote VoteType,
	confidence float64,
	reasoning string,
	risk RiskLevel,
	strategy VotingStrategy,
) (*VoteDecision, error) {
	if proposalID == "" {
		return nil, fmt.Errorf("decision requires a proposal ID")
	}
	if !vote.Valid() {
		return nil, fmt.Errorf(
			"decision for %s: unknown vote %q",
			proposalID,
			vote,
		)
	}
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) ||
		confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf(
			"decision for %s: confidence %f outside [0,1]",
			proposalID,
			confidence,
		)
	}
	if strings.TrimSpace(reasoning) == "" {
		return nil, fmt.Errorf("decision for %s: empty reasoning", proposalID)
	}
	if len(strings.TrimSpace(reasoning)) < MinReasoningLength {
		return nil, fmt.Errorf(
			"decision for %s: reasoning shorter than %d characters",
			proposalID,
			MinReasoningLength,
		)
	}
	if risk == "" {
		risk = RiskMedium
	}
	if !risk.Valid() {
		return nil, fmt.Errorf(
			"decision for %s: unknown risk assessment %q",
			proposalID,
			risk,
		)
	}
	return &VoteDecision{
		ProposalID:     proposalID,
		Vote:           vote,
		Confidence:     math.Round(confidence*1000) / 1000,
		Reasoning:      reasoning,
		RiskAssessment: risk,
		StrategyUsed:   strategy,
	}, nil
}
