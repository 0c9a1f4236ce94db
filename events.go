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
	"github.com/quorumlabs/govpilot/event"
	"github.com/quorumlabs/govpilot/governance"
)

const (
	RunStartedEventType       event.EventType = "agent.run_started"
	ProposalsFetchedEventType event.EventType = "agent.proposals_fetched"
	VoteCastEventType         event.EventType = "agent.vote_cast"
	RunCompletedEventType     event.EventType = "agent.run_completed"
)

// RunStartedEvent is emitted when an agent run begins
type RunStartedEvent struct {
	SpaceID string
	DryRun  bool
}

// ProposalsFetchedEvent is emitted after candidate proposals are fetched
type ProposalsFetchedEvent struct {
	SpaceID string
	Count   int
}

// VoteCastEvent is emitted for each decision retained by the run,
// whether executed on-chain or kept as a dry-run decision
type VoteCastEvent struct {
	SpaceID         string
	ProposalID      string
	Vote            governance.VoteType
	Confidence      float64
	Executed        bool
	TransactionHash string
}

// RunCompletedEvent is emitted when an agent run finishes
type RunCompletedEvent struct {
	SpaceID           string
	ProposalsAnalyzed int
	VotesCast         int
	Activity          ActivityType
	ExecutionTime     float64
	ErrorCount        int
}
