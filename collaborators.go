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
	"context"

	"github.com/quorumlabs/govpilot/governance"
)

// External collaborator contracts. The agent consumes these; it never
// implements them. Implementations wrap the Snapshot/Tally GraphQL APIs,
// the LLM decision service, the Safe transaction service and the on-chain
// activity tracker.

// ProposalSource fetches candidate proposals for a governance space.
// "No proposals" is an empty slice, not an error.
type ProposalSource interface {
	GetProposals(
		ctx context.Context,
		spaceID string,
		state governance.ProposalState,
		limit int,
	) ([]governance.Proposal, error)
}

// PreferencesSource loads the user's voting preferences for a run
type PreferencesSource interface {
	LoadPreferences(ctx context.Context) (*governance.UserPreferences, error)
}

// DecisionMaker produces a vote decision for one proposal. Calls may fail
// individually; the agent isolates each failure to its proposal.
type DecisionMaker interface {
	DecideVote(
		ctx context.Context,
		proposal *governance.Proposal,
		strategy governance.VotingStrategy,
	) (*governance.VoteDecision, error)
}

// VoteResult is the outcome of one on-chain vote submission
type VoteResult struct {
	Success         bool
	TransactionHash string
	Error           string
}

// VoteExecutor submits a vote on-chain. The choice is the proposal
// source's 1-based choice ordinal (governance.VoteType.ChoiceIndex).
type VoteExecutor interface {
	VoteOnProposal(
		ctx context.Context,
		space string,
		proposal string,
		choice int,
	) (*VoteResult, error)
}

// ActivityResult is the outcome of one activity registration
type ActivityResult struct {
	Success         bool
	TransactionHash string
	Error           string
}

// ActivityTracker records the run's activity classification with the
// external accountability contract. A nil tracker disables tracking.
type ActivityTracker interface {
	RegisterActivity(
		ctx context.Context,
		multisigAddress string,
		activityType ActivityType,
	) (*ActivityResult, error)
}
