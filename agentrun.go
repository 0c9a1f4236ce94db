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
	"errors"
	"fmt"
	"time"

	"github.com/quorumlabs/govpilot/event"
	"github.com/quorumlabs/govpilot/governance"
	"github.com/quorumlabs/govpilot/profilter"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// AgentRunRequest asks for one decision cycle over one governance space
type AgentRunRequest struct {
	SpaceID string `json:"space_id"`
	DryRun  bool   `json:"dry_run"`
}

// AgentRunResponse summarizes one decision cycle. VotesCast holds the
// decisions that cleared the confidence threshold, in ranked proposal
// order, whether or not they were executed on-chain (a dry-run decision
// still appears here with Executed false).
type AgentRunResponse struct {
	SpaceID                string                     `json:"space_id"`
	ProposalsAnalyzed      int                        `json:"proposals_analyzed"`
	VotesCast              []*governance.VoteDecision `json:"votes_cast"`
	UserPreferencesApplied bool                       `json:"user_preferences_applied"`
	ExecutionTime          float64                    `json:"execution_time"`
	Errors                 []string                   `json:"errors"`
}

// ExecuteAgentRun performs one full decision cycle for one governance
// space. Every stage failure past request validation is recoverable:
// it's recorded in the response's Errors and the run continues with
// whatever the stage produced. Only a nil request fails loudly.
func (a *Agent) ExecuteAgentRun(
	ctx context.Context,
	req *AgentRunRequest,
) (*AgentRunResponse, error) {
	if req == nil {
		return nil, errors.New("nil agent run request")
	}
	start := time.Now()
	ctx, span := otel.Tracer("govpilot").Start(ctx, "agent_run")
	defer span.End()
	resp := &AgentRunResponse{
		SpaceID:   req.SpaceID,
		VotesCast: []*governance.VoteDecision{},
		Errors:    []string{},
	}
	a.eventBus.Publish(
		RunStartedEventType,
		event.NewEvent(
			RunStartedEventType,
			RunStartedEvent{SpaceID: req.SpaceID, DryRun: req.DryRun},
		),
	)
	a.config.logger.Info(
		"starting agent run",
		"component", "agent",
		"space", req.SpaceID,
		"dry_run", req.DryRun,
	)

	prefs, err := a.config.preferencesSource.LoadPreferences(ctx)
	if err != nil {
		// Without preferences there is no threshold or strategy to apply,
		// so the run completes empty rather than guessing at either
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("failed to load preferences: %s", err),
		)
		a.config.logger.Error(
			"failed to load preferences",
			"component", "agent",
			"space", req.SpaceID,
			"error", err,
		)
		return a.completeRun(ctx, req, resp, start)
	}
	if prefs == nil {
		// A source returning (nil, nil) is treated the same as a load
		// failure: there is no threshold or strategy to apply
		resp.Errors = append(
			resp.Errors,
			"preferences source returned no preferences",
		)
		a.config.logger.Error(
			"preferences source returned no preferences",
			"component", "agent",
			"space", req.SpaceID,
		)
		return a.completeRun(ctx, req, resp, start)
	}
	resp.UserPreferencesApplied = true

	candidates, err := a.config.proposalSource.GetProposals(
		ctx,
		req.SpaceID,
		governance.ProposalStateActive,
		a.config.proposalFetchLimit,
	)
	if err != nil {
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("failed to fetch proposals: %s", err),
		)
		a.config.logger.Error(
			"failed to fetch proposals",
			"component", "agent",
			"space", req.SpaceID,
			"error", err,
		)
		candidates = nil
	}
	a.eventBus.Publish(
		ProposalsFetchedEventType,
		event.NewEvent(
			ProposalsFetchedEventType,
			ProposalsFetchedEvent{SpaceID: req.SpaceID, Count: len(candidates)},
		),
	)
	if len(candidates) == 0 {
		return a.completeRun(ctx, req, resp, start)
	}

	selected := a.filterAndRank(candidates, prefs, resp)
	if prefs.MaxProposalsPerRun > 0 &&
		len(selected) > prefs.MaxProposalsPerRun {
		selected = selected[:prefs.MaxProposalsPerRun]
	}
	resp.ProposalsAnalyzed = len(selected)

	decisions := a.decideProposals(ctx, selected, prefs, resp)
	for _, decision := range decisions {
		if decision == nil {
			continue
		}
		if decision.Confidence < prefs.ConfidenceThreshold {
			a.config.logger.Debug(
				"decision below confidence threshold",
				"component", "agent",
				"proposal", decision.ProposalID,
				"confidence", decision.Confidence,
				"threshold", prefs.ConfidenceThreshold,
			)
			continue
		}
		resp.VotesCast = append(resp.VotesCast, decision)
	}

	executed := 0
	for _, decision := range resp.VotesCast {
		if req.DryRun {
			decision.Executed = false
		} else if a.executeVote(ctx, req.SpaceID, decision, resp) {
			executed++
		}
		a.metrics.votesCast.WithLabelValues(string(decision.Vote)).Inc()
		a.eventBus.Publish(
			VoteCastEventType,
			event.NewEvent(
				VoteCastEventType,
				VoteCastEvent{
					SpaceID:         req.SpaceID,
					ProposalID:      decision.ProposalID,
					Vote:            decision.Vote,
					Confidence:      decision.Confidence,
					Executed:        decision.Executed,
					TransactionHash: decision.TransactionHash,
				},
			),
		)
	}

	if err := a.SaveVotingDecisions(ctx, resp.VotesCast); err != nil {
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("failed to save voting history: %s", err),
		)
		a.config.logger.Error(
			"failed to save voting history",
			"component", "agent",
			"space", req.SpaceID,
			"error", err,
		)
	}
	return a.completeRunExecuted(ctx, req, resp, len(candidates), executed, start)
}

// completeRun finishes a run that surfaced no candidate proposals
func (a *Agent) completeRun(
	ctx context.Context,
	req *AgentRunRequest,
	resp *AgentRunResponse,
	start time.Time,
) (*AgentRunResponse, error) {
	return a.completeRunExecuted(ctx, req, resp, 0, 0, start)
}

// completeRunExecuted classifies the run, reports it to the activity
// tracker, persists the checkpoint, and fills in timing. Always returns
// the response with a nil error
func (a *Agent) completeRunExecuted(
	ctx context.Context,
	req *AgentRunRequest,
	resp *AgentRunResponse,
	candidateCount int,
	executed int,
	start time.Time,
) (*AgentRunResponse, error) {
	activity := classifyActivity(
		candidateCount,
		len(resp.VotesCast),
		executed,
		req.DryRun,
		a.config.dryRunCountsAsCast,
	)
	a.registerRunActivity(ctx, req.SpaceID, activity, resp)
	resp.ExecutionTime = time.Since(start).Seconds()
	a.saveRunCheckpoint(ctx, req, resp, activity)
	a.metrics.runsTotal.WithLabelValues(activity.String()).Inc()
	a.metrics.runErrorsTotal.Add(float64(len(resp.Errors)))
	a.metrics.proposalsAnalyzed.Add(float64(resp.ProposalsAnalyzed))
	a.metrics.runDuration.Observe(resp.ExecutionTime)
	a.eventBus.Publish(
		RunCompletedEventType,
		event.NewEvent(
			RunCompletedEventType,
			RunCompletedEvent{
				SpaceID:           req.SpaceID,
				ProposalsAnalyzed: resp.ProposalsAnalyzed,
				VotesCast:         len(resp.VotesCast),
				Activity:          activity,
				ExecutionTime:     resp.ExecutionTime,
				ErrorCount:        len(resp.Errors),
			},
		),
	)
	return resp, nil
}

// filterAndRank applies the proposal filter. A filter failure is
// recoverable: the run falls back to the unfiltered candidate list
func (a *Agent) filterAndRank(
	candidates []governance.Proposal,
	prefs *governance.UserPreferences,
	resp *AgentRunResponse,
) []governance.Proposal {
	filter, err := profilter.NewProposalFilter(profilter.ProposalFilterConfig{
		Preferences:  prefs,
		Logger:       a.config.logger,
		PromRegistry: a.config.promRegistry,
	})
	if err == nil {
		var filtered []governance.Proposal
		filtered, err = filter.FilterProposals(candidates)
		if err == nil {
			var ranked []governance.Proposal
			ranked, err = filter.RankProposals(filtered)
			if err == nil {
				return ranked
			}
		}
	}
	resp.Errors = append(
		resp.Errors,
		fmt.Sprintf("proposal filtering failed: %s", err),
	)
	a.config.logger.Error(
		"proposal filtering failed, using unfiltered list",
		"component", "agent",
		"space", resp.SpaceID,
		"error", err,
	)
	return candidates
}

// decideProposals obtains a decision per proposal concurrently. Results
// land in a positional slice so the final ordering always matches the
// ranked proposal order regardless of completion order. One proposal's
// failure never cancels the others
func (a *Agent) decideProposals(
	ctx context.Context,
	proposals []governance.Proposal,
	prefs *governance.UserPreferences,
	resp *AgentRunResponse,
) []*governance.VoteDecision {
	decisions := make([]*governance.VoteDecision, len(proposals))
	decisionErrs := make([]error, len(proposals))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range proposals {
		g.Go(func() error {
			decision, err := a.config.decisionMaker.DecideVote(
				gCtx,
				&proposals[i],
				prefs.VotingStrategy,
			)
			if err != nil {
				decisionErrs[i] = err
				return nil
			}
			decisions[i] = decision
			return nil
		})
	}
	// Goroutines never return errors, so this cannot fail
	_ = g.Wait()
	for i, err := range decisionErrs {
		if err == nil {
			continue
		}
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf(
				"decision failed for proposal %s: %s",
				proposals[i].ID,
				err,
			),
		)
		a.config.logger.Error(
			"decision failed for proposal",
			"component", "agent",
			"space", resp.SpaceID,
			"proposal", proposals[i].ID,
			"error", err,
		)
	}
	return decisions
}

// executeVote submits one decision on-chain and records the outcome on
// the decision itself. Returns true when the vote landed
func (a *Agent) executeVote(
	ctx context.Context,
	spaceID string,
	decision *governance.VoteDecision,
	resp *AgentRunResponse,
) bool {
	result, err := a.config.voteExecutor.VoteOnProposal(
		ctx,
		spaceID,
		decision.ProposalID,
		decision.Vote.ChoiceIndex(),
	)
	if err != nil {
		decision.Error = err.Error()
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf(
				"vote execution failed for proposal %s: %s",
				decision.ProposalID,
				err,
			),
		)
		a.config.logger.Error(
			"vote execution failed",
			"component", "agent",
			"space", spaceID,
			"proposal", decision.ProposalID,
			"error", err,
		)
		return false
	}
	if !result.Success {
		decision.Error = result.Error
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf(
				"vote execution failed for proposal %s: %s",
				decision.ProposalID,
				result.Error,
			),
		)
		return false
	}
	decision.Executed = true
	decision.TransactionHash = result.TransactionHash
	a.config.logger.Info(
		"vote executed",
		"component", "agent",
		"space", spaceID,
		"proposal", decision.ProposalID,
		"vote", string(decision.Vote),
		"tx_hash", result.TransactionHash,
	)
	return true
}

// registerRunActivity reports the classification to the activity tracker.
// Tracker failures are logged and recorded, never fatal. A nil tracker
// disables reporting entirely
func (a *Agent) registerRunActivity(
	ctx context.Context,
	spaceID string,
	activity ActivityType,
	resp *AgentRunResponse,
) {
	if a.config.activityTracker == nil {
		return
	}
	result, err := a.config.activityTracker.RegisterActivity(
		ctx,
		a.config.multisigAddress,
		activity,
	)
	if err != nil {
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("activity tracking failed: %s", err),
		)
		a.config.logger.Error(
			"activity tracking failed",
			"component", "agent",
			"space", spaceID,
			"activity", activity.String(),
			"error", err,
		)
		return
	}
	if result != nil && !result.Success {
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("activity tracking failed: %s", result.Error),
		)
		return
	}
	a.config.logger.Info(
		"registered activity",
		"component", "agent",
		"space", spaceID,
		"activity", activity.String(),
	)
}

// saveRunCheckpoint persists a snapshot of the run outcome. Failures are
// logged and recorded, never fatal
func (a *Agent) saveRunCheckpoint(
	ctx context.Context,
	req *AgentRunRequest,
	resp *AgentRunResponse,
	activity ActivityType,
) {
	doc := map[string]any{
		"space_id":           req.SpaceID,
		"dry_run":            req.DryRun,
		"proposals_analyzed": resp.ProposalsAnalyzed,
		"votes_cast":         len(resp.VotesCast),
		"activity":           int(activity),
		"execution_time":     resp.ExecutionTime,
		"errors":             append([]string{}, resp.Errors...),
		"timestamp":          time.Now().Unix(),
	}
	if err := a.stateStore.SaveCheckpoint(ctx, req.SpaceID, doc); err != nil {
		resp.Errors = append(
			resp.Errors,
			fmt.Sprintf("failed to save run checkpoint: %s", err),
		)
		a.config.logger.Error(
			"failed to save run checkpoint",
			"component", "agent",
			"space", req.SpaceID,
			"error", err,
		)
	}
}
