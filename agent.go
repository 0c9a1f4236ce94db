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
	"sync"
	"time"

	"github.com/quorumlabs/govpilot/event"
	"github.com/quorumlabs/govpilot/state"
)

// Agent runs the autonomous governance voting loop: fetch proposals for
// each configured space, filter and rank them against the user's
// preferences, obtain a vote decision per proposal, optionally execute
// the votes on-chain, and record the run's activity and history.
type Agent struct {
	config         Config
	eventBus       *event.EventBus
	stateStore     state.Store
	metrics        agentMetrics
	tracerShutdown func(context.Context) error
	done           chan struct{}
	shutdownOnce   sync.Once
}

// New creates a new agent from the provided config
func New(cfg Config) (*Agent, error) {
	a := &Agent{
		config: cfg,
		eventBus: event.NewEventBus(
			cfg.promRegistry,
			cfg.logger,
		),
		done: make(chan struct{}),
	}
	if err := a.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if a.config.stateStore == nil {
		a.stateStore = state.NewMemoryStore()
	} else {
		a.stateStore = a.config.stateStore
	}
	a.registerMetrics()
	return a, nil
}

// EventBus returns the agent's event bus for external subscribers
func (a *Agent) EventBus() *event.EventBus {
	return a.eventBus
}

// Run executes periodic agent runs for each configured space until the
// provided context is canceled or Stop is called. The first round of runs
// happens immediately
func (a *Agent) Run(ctx context.Context) error {
	// Configure tracing
	if a.config.tracing {
		if err := a.setupTracing(); err != nil {
			return err
		}
	}
	if len(a.config.spaces) == 0 {
		return fmt.Errorf("no governance spaces configured")
	}
	a.config.logger.Info(
		"starting agent",
		"component", "agent",
		"spaces", a.config.spaces,
		"interval", a.config.runInterval.String(),
		"dry_run", a.config.dryRun,
	)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return a.Stop()
		case <-a.done:
			return nil
		case <-timer.C:
			a.runAllSpaces(ctx)
			timer.Reset(a.config.runInterval)
		}
	}
}

func (a *Agent) runAllSpaces(ctx context.Context) {
	for _, space := range a.config.spaces {
		resp, err := a.ExecuteAgentRun(
			ctx,
			&AgentRunRequest{
				SpaceID: space,
				DryRun:  a.config.dryRun,
			},
		)
		if err != nil {
			a.config.logger.Error(
				"agent run failed",
				"component", "agent",
				"space", space,
				"error", err,
			)
			continue
		}
		a.config.logger.Info(
			"agent run complete",
			"component", "agent",
			"space", space,
			"proposals_analyzed", resp.ProposalsAnalyzed,
			"votes_cast", len(resp.VotesCast),
			"errors", len(resp.Errors),
			"execution_time", resp.ExecutionTime,
		)
	}
}

// Stop shuts the agent down gracefully. It's safe to call more than once
func (a *Agent) Stop() error {
	var err error
	a.shutdownOnce.Do(func() {
		err = a.shutdown()
	})
	return err
}

func (a *Agent) shutdown() error {
	shutdownTimeout := 30 * time.Second
	if a.config.shutdownTimeout > 0 {
		shutdownTimeout = a.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.config.logger.Debug(
		"starting graceful shutdown",
		"component", "agent",
	)
	var retErr error
	close(a.done)
	a.eventBus.Stop()
	if a.stateStore != nil {
		if err := a.stateStore.Close(); err != nil {
			a.config.logger.Error(
				"failed to close state store",
				"component", "agent",
				"error", err,
			)
			retErr = err
		}
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.config.logger.Error(
				"failed to shutdown tracer",
				"component", "agent",
				"error", err,
			)
			if retErr == nil {
				retErr = err
			}
		}
	}
	return retErr
}

// AgentStatus is a point-in-time health summary
type AgentStatus struct {
	Healthy           bool    `json:"healthy"`
	StateStoreHealthy bool    `json:"state_store_healthy"`
	Spaces            int     `json:"spaces"`
	DryRun            bool    `json:"dry_run"`
	ProbeTime         float64 `json:"probe_time"`
}

// statusProbeTimeout bounds the state store probe so status checks stay
// fast even when the backend is wedged
const statusProbeTimeout = 50 * time.Millisecond

// Status reports agent health. The state store is probed with a short
// timeout; a probe failure marks the store unhealthy but never blocks
// or errors the status call itself
func (a *Agent) Status(ctx context.Context) AgentStatus {
	start := time.Now()
	status := AgentStatus{
		Spaces: len(a.config.spaces),
		DryRun: a.config.dryRun,
	}
	probeCtx, cancel := context.WithTimeout(ctx, statusProbeTimeout)
	defer cancel()
	if _, err := a.stateStore.LoadState(probeCtx, "health_probe"); err == nil {
		status.StateStoreHealthy = true
	}
	status.Healthy = status.StateStoreHealthy
	status.ProbeTime = time.Since(start).Seconds()
	return status
}
