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

// ActivityType is the coarse classification of what one agent run
// accomplished, reported to the external activity tracker. The integer
// values are fixed by the tracker contract's enumeration and must not
// be renumbered.
type ActivityType int

const (
	ActivityVoteCast              ActivityType = 0
	ActivityOpportunityConsidered ActivityType = 1
	ActivityNoOpportunity         ActivityType = 2
)

func (a ActivityType) String() string {
	switch a {
	case ActivityVoteCast:
		return "VOTE_CAST"
	case ActivityOpportunityConsidered:
		return "OPPORTUNITY_CONSIDERED"
	case ActivityNoOpportunity:
		return "NO_OPPORTUNITY"
	default:
		return "UNKNOWN"
	}
}

// classifyActivity determines the run's single activity classification.
// candidateCount is the number of proposals fetched (before filtering),
// retained is the number of decisions that cleared the confidence
// threshold, and executed is the number of votes actually submitted
// on-chain. Dry-run decisions only count toward VOTE_CAST when
// dryRunCountsAsCast is set; the default reports them as
// OPPORTUNITY_CONSIDERED since nothing reached the chain.
func classifyActivity(
	candidateCount int,
	retained int,
	executed int,
	dryRun bool,
	dryRunCountsAsCast bool,
) ActivityType {
	if candidateCount == 0 {
		return ActivityNoOpportunity
	}
	if executed > 0 {
		return ActivityVoteCast
	}
	if dryRun && dryRunCountsAsCast && retained > 0 {
		return ActivityVoteCast
	}
	return ActivityOpportunityConsidered
}
