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

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/quorumlabs/govpilot/governance"
	"github.com/quorumlabs/govpilot/internal/config"
)

// configPreferencesSource serves the voting preferences straight from
// file/env configuration
type configPreferencesSource struct {
	cfg *config.Config
}

func newConfigPreferencesSource(cfg *config.Config) *configPreferencesSource {
	return &configPreferencesSource{cfg: cfg}
}

func (s *configPreferencesSource) LoadPreferences(
	_ context.Context,
) (*governance.UserPreferences, error) {
	return governance.NewUserPreferences(
		governance.VotingStrategy(s.cfg.Strategy),
		s.cfg.ConfidenceThreshold,
		s.cfg.MaxProposalsPerRun,
		s.cfg.BlacklistedProposers,
		s.cfg.WhitelistedProposers,
	)
}

// fileProposalSource reads proposals from a JSON file on each fetch.
// It is the built-in source for development and replay runs; production
// deployments wire a real governance API client in its place. With no
// file configured every fetch yields an empty batch.
type fileProposalSource struct {
	path   string
	logger *slog.Logger
}

func newFileProposalSource(
	path string,
	logger *slog.Logger,
) *fileProposalSource {
	return &fileProposalSource{
		path:   path,
		logger: logger,
	}
}

func (s *fileProposalSource) GetProposals(
	ctx context.Context,
	spaceID string,
	proposalState governance.ProposalState,
	limit int,
) ([]governance.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return []governance.Proposal{}, nil
	}
	buf, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposals file: %w", err)
	}
	var all []governance.Proposal
	if err := json.Unmarshal(buf, &all); err != nil {
		return nil, fmt.Errorf("failed to parse proposals file: %w", err)
	}
	proposals := make([]governance.Proposal, 0, len(all))
	for _, p := range all {
		if proposalState != "" && p.State != proposalState {
			continue
		}
		if err := p.Valid(); err != nil {
			s.logger.Warn(
				"skipping invalid proposal from file",
				"component", "proposalsource",
				"proposal", p.ID,
				"error", err,
			)
			continue
		}
		proposals = append(proposals, p)
		if limit > 0 && len(proposals) >= limit {
			break
		}
	}
	s.logger.Debug(
		"loaded proposals from file",
		"component", "proposalsource",
		"space", spaceID,
		"count", len(proposals),
	)
	return proposals, nil
}

// majorityDecisionMaker is the built-in decision maker: it follows the
// current tally leader. Confidence is the leader's share of the total
// score, damped or amplified by the voting strategy. Deployments with
// an external decision service replace it via config options.
type majorityDecisionMaker struct{}

func newMajorityDecisionMaker() *majorityDecisionMaker {
	return &majorityDecisionMaker{}
}

func (m *majorityDecisionMaker) DecideVote(
	ctx context.Context,
	proposal *governance.Proposal,
	strategy governance.VotingStrategy,
) (*governance.VoteDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("nil proposal")
	}
	vote := governance.VoteAbstain
	confidence := 0.5
	reasoning := fmt.Sprintf(
		"No meaningful tally yet for %q; abstaining",
		proposal.Title,
	)
	if proposal.ScoresTotal > 0 && len(proposal.Scores) > 0 {
		leader := 0
		for i, score := range proposal.Scores {
			if score > proposal.Scores[leader] {
				leader = i
			}
		}
		// Choice ordinals follow the Snapshot convention: the first three
		// choices map to FOR/AGAINST/ABSTAIN
		switch leader {
		case 0:
			vote = governance.VoteFor
		case 1:
			vote = governance.VoteAgainst
		default:
			vote = governance.VoteAbstain
		}
		confidence = proposal.Scores[leader] / proposal.ScoresTotal
		reasoning = fmt.Sprintf(
			"Following the tally leader for %q: choice %d holds %.1f%% of %.0f total voting power across %d votes",
			proposal.Title,
			leader+1,
			confidence*100,
			proposal.ScoresTotal,
			proposal.Votes,
		)
	}
	switch strategy {
	case governance.StrategyConservative:
		confidence *= 0.8
	case governance.StrategyAggressive:
		confidence = min(confidence*1.2, 1.0)
	}
	return governance.NewVoteDecision(
		proposal.ID,
		vote,
		confidence,
		reasoning,
		riskForProposal(proposal),
		strategy,
	)
}

// riskForProposal derives a coarse risk level from participation: thin
// participation means a single vote swings the outcome
func riskForProposal(proposal *governance.Proposal) governance.RiskLevel {
	switch {
	case proposal.Votes >= 100:
		return governance.RiskLow
	case proposal.Votes >= 10:
		return governance.RiskMedium
	default:
		return governance.RiskHigh
	}
}
