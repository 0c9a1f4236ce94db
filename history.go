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
	"fmt"

	"github.com/quorumlabs/govpilot/governance"
	"github.com/quorumlabs/govpilot/state"
)

const (
	votingHistoryKey = "voting_history"
	// maxVotingHistoryEntries bounds the persisted history. When an append
	// would exceed it, the oldest entries are evicted first
	maxVotingHistoryEntries = 10
)

// LoadVotingHistory loads the persisted voting history from a state
// store, most recent last. Entries that fail to decode are dropped
// rather than failing the load, so a corrupt entry can't wedge the
// agent. At most the newest maxVotingHistoryEntries decisions are
// returned
func LoadVotingHistory(
	ctx context.Context,
	store state.Store,
) ([]*governance.VoteDecision, error) {
	doc, err := store.LoadState(ctx, votingHistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load voting history: %w", err)
	}
	if doc == nil {
		return []*governance.VoteDecision{}, nil
	}
	rawEntries, ok := doc["entries"].([]any)
	if !ok {
		return []*governance.VoteDecision{}, nil
	}
	decisions := make([]*governance.VoteDecision, 0, len(rawEntries))
	for _, raw := range rawEntries {
		decision, ok := governance.DecodeHistoryEntry(raw)
		if !ok {
			continue
		}
		decisions = append(decisions, decision)
	}
	if len(decisions) > maxVotingHistoryEntries {
		decisions = decisions[len(decisions)-maxVotingHistoryEntries:]
	}
	return decisions, nil
}

// GetVotingHistory loads the agent's persisted voting history
func (a *Agent) GetVotingHistory(
	ctx context.Context,
) ([]*governance.VoteDecision, error) {
	return LoadVotingHistory(ctx, a.stateStore)
}

// SaveVotingDecisions appends decisions to the persisted history and
// trims it to the newest maxVotingHistoryEntries. An empty input is a
// no-op and never touches the store
func (a *Agent) SaveVotingDecisions(
	ctx context.Context,
	decisions []*governance.VoteDecision,
) error {
	if len(decisions) == 0 {
		return nil
	}
	existing, err := a.GetVotingHistory(ctx)
	if err != nil {
		return err
	}
	combined := append(existing, decisions...)
	if len(combined) > maxVotingHistoryEntries {
		combined = combined[len(combined)-maxVotingHistoryEntries:]
	}
	entries := make([]any, 0, len(combined))
	for _, decision := range combined {
		entries = append(entries, governance.EncodeHistoryEntry(decision))
	}
	doc := map[string]any{
		"entries": entries,
	}
	if err := a.stateStore.SaveState(ctx, votingHistoryKey, doc); err != nil {
		return fmt.Errorf("failed to save voting history: %w", err)
	}
	return nil
}

// VotingPatterns summarizes the persisted voting history
type VotingPatterns struct {
	TotalVotes        int            `json:"total_votes"`
	VoteDistribution  map[string]int `json:"vote_distribution"`
	AverageConfidence float64        `json:"average_confidence"`
	StrategyUsage     map[string]int `json:"strategy_usage"`
}

// GetVotingPatterns derives summary statistics from the stored history
func (a *Agent) GetVotingPatterns(ctx context.Context) (*VotingPatterns, error) {
	history, err := a.GetVotingHistory(ctx)
	if err != nil {
		return nil, err
	}
	patterns := &VotingPatterns{
		TotalVotes:       len(history),
		VoteDistribution: make(map[string]int),
		StrategyUsage:    make(map[string]int),
	}
	if len(history) == 0 {
		return patterns, nil
	}
	var confidenceSum float64
	for _, decision := range history {
		patterns.VoteDistribution[string(decision.Vote)]++
		if decision.StrategyUsed != "" {
			patterns.StrategyUsage[string(decision.StrategyUsed)]++
		}
		confidenceSum += decision.Confidence
	}
	patterns.AverageConfidence = confidenceSum / float64(len(history))
	return patterns, nil
}
