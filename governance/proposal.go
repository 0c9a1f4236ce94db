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
	"errors"
	"fmt"
)

// ProposalState represents the lifecycle state of a governance proposal
// as reported by the proposal source.
type ProposalState string

const (
	ProposalStatePending ProposalState = "pending"
	ProposalStateActive  ProposalState = "active"
	ProposalStateClosed  ProposalState = "closed"
)

// Valid returns true if the ProposalState is a known state
func (s ProposalState) Valid() bool {
	switch s {
	case ProposalStatePending, ProposalStateActive, ProposalStateClosed:
		return true
	default:
		return false
	}
}

// Proposal is a normalized governance vote item fetched from the proposal
// source. Proposals are read-only value objects within an agent run: the
// filter and the agent never mutate them.
type Proposal struct {
	ID          string
	Title       string
	Body        string
	Author      string
	Choices     []string
	Start       int64
	End         int64
	Created     int64
	State       ProposalState
	Scores      []float64
	ScoresTotal float64
	Votes       int
	Quorum      float64
}

// Valid checks the proposal invariants: timestamps must be ordered
// (created <= start <= end), totals and counts must be non-negative, and
// per-choice scores must line up with the choice list when both are present.
func (p *Proposal) Valid() error {
	if p.ID == "" {
		return errors.New("proposal ID must not be empty")
	}
	if p.Created > p.Start {
		return fmt.Errorf(
			"proposal %s: created (%d) after start (%d)",
			p.ID,
			p.Created,
			p.Start,
		)
	}
	if p.Start > p.End {
		return fmt.Errorf(
			"proposal %s: start (%d) after end (%d)",
			p.ID,
			p.Start,
			p.End,
		)
	}
	if !p.State.Valid() {
		return fmt.Errorf("proposal %s: unknown state %q", p.ID, p.State)
	}
	if p.ScoresTotal < 0 {
		return fmt.Errorf(
			"proposal %s: negative scores total %f",
			p.ID,
			p.ScoresTotal,
		)
	}
	if p.Votes < 0 {
		return fmt.Errorf("proposal %s: negative vote count %d", p.ID, p.Votes)
	}
	if p.Quorum < 0 {
		return fmt.Errorf("proposal %s: negative quorum %f", p.ID, p.Quorum)
	}
	if len(p.Scores) > 0 && len(p.Choices) > 0 &&
		len(p.Scores) != len(p.Choices) {
		return fmt.Errorf(
			"proposal %s: %d scores for %d choices",
			p.ID,
			len(p.Scores),
			len(p.Choices),
		)
	}
	return nil
}
