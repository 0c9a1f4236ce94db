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

// Package agent wires a govpilot.Agent together from file/env
// configuration: state store selection, built-in collaborators, the
// metrics listener, and signal handling. Production integrations swap
// in their own collaborators via the extra config options.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quorumlabs/govpilot"
	"github.com/quorumlabs/govpilot/governance"
	"github.com/quorumlabs/govpilot/internal/config"
	"github.com/quorumlabs/govpilot/state"
)

func newStateStore(
	cfg *config.Config,
	logger *slog.Logger,
) (state.Store, error) {
	switch cfg.StatePlugin {
	case state.PluginSqlite:
		return state.NewSqliteStore(state.SqliteStoreConfig{
			DataDir: cfg.DataDir,
			Logger:  logger,
			Tracing: cfg.Tracing,
		})
	case state.PluginBadger:
		return state.NewBadgerStore(state.BadgerStoreConfig{
			DataDir: cfg.DataDir,
			Logger:  logger,
		})
	case state.PluginMemory:
		return state.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown state plugin: %q", cfg.StatePlugin)
	}
}

func buildAgent(
	cfg *config.Config,
	logger *slog.Logger,
	extraOpts ...govpilot.ConfigOptionFunc,
) (*govpilot.Agent, error) {
	runInterval, err := time.ParseDuration(cfg.RunInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid run interval: %w", err)
	}
	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}
	store, err := newStateStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	opts := []govpilot.ConfigOptionFunc{
		govpilot.WithLogger(logger),
		govpilot.WithPrometheusRegistry(prometheus.DefaultRegisterer),
		govpilot.WithStateStore(store),
		govpilot.WithSpaces(cfg.Spaces...),
		govpilot.WithMultisigAddress(cfg.MultisigAddress),
		govpilot.WithProposalFetchLimit(cfg.ProposalFetchLimit),
		govpilot.WithRunInterval(runInterval),
		govpilot.WithDryRun(cfg.DryRun),
		govpilot.WithDryRunCountsAsCast(cfg.DryRunCountsAsCast),
		govpilot.WithTracing(cfg.Tracing),
		govpilot.WithTracingStdout(cfg.TracingStdout),
		govpilot.WithShutdownTimeout(shutdownTimeout),
		// Built-in collaborators; integrations override via extraOpts
		govpilot.WithPreferencesSource(newConfigPreferencesSource(cfg)),
		govpilot.WithProposalSource(
			newFileProposalSource(cfg.ProposalsFile, logger),
		),
		govpilot.WithDecisionMaker(newMajorityDecisionMaker()),
	}
	opts = append(opts, extraOpts...)
	return govpilot.New(govpilot.NewConfig(opts...))
}

// Run builds the agent from config and runs it until a termination
// signal arrives. In "once" mode it performs a single run per space
// and exits.
func Run(
	cfg *config.Config,
	logger *slog.Logger,
	extraOpts ...govpilot.ConfigOptionFunc,
) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "agent")
	a, err := buildAgent(cfg, logger, extraOpts...)
	if err != nil {
		return err
	}
	if cfg.RunMode == config.RunModeOnce {
		return runOnce(cfg, logger, a)
	}

	// Metrics listener
	http.Handle("/metrics", promhttp.Handler())
	logger.Info(
		fmt.Sprintf(
			"serving prometheus metrics on %s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component", "agent",
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", "agent",
			)
			os.Exit(1)
		}
	}()

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	errChan := make(chan error, 1)
	go func() {
		//nolint:contextcheck
		err := a.Run(signalCtx)
		select {
		case errChan <- err:
		case <-signalCtx.Done():
		}
	}()

	shutdownMetrics := func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		shutdownMetrics()
		if err := a.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil
	case err := <-errChan:
		shutdownMetrics()
		if stopErr := a.Stop(); stopErr != nil {
			logger.Error("shutdown errors occurred", "error", stopErr)
		}
		return err
	}
}

func runOnce(
	cfg *config.Config,
	logger *slog.Logger,
	a *govpilot.Agent,
) error {
	defer func() {
		if err := a.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
		}
	}()
	ctx := context.Background()
	for _, space := range cfg.Spaces {
		resp, err := a.ExecuteAgentRun(
			ctx,
			&govpilot.AgentRunRequest{
				SpaceID: space,
				DryRun:  cfg.DryRun,
			},
		)
		if err != nil {
			return fmt.Errorf("agent run failed for %s: %w", space, err)
		}
		logger.Info(
			"agent run complete",
			"component", "agent",
			"space", space,
			"proposals_analyzed", resp.ProposalsAnalyzed,
			"votes_cast", len(resp.VotesCast),
			"errors", len(resp.Errors),
			"execution_time", resp.ExecutionTime,
		)
	}
	return nil
}

// History loads the persisted voting history straight from the
// configured state store, without building a full agent
func History(
	cfg *config.Config,
	logger *slog.Logger,
) ([]*governance.VoteDecision, error) {
	store, err := newStateStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	defer store.Close()
	return govpilot.LoadVotingHistory(context.Background(), store)
}
