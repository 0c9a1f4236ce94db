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
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quorumlabs/govpilot/state"
)

// DefaultProposalFetchLimit is the per-space fetch limit passed to the
// proposal source
const DefaultProposalFetchLimit = 20

// DefaultRunInterval is the pause between periodic agent runs in serve mode
const DefaultRunInterval = 30 * time.Minute

type Config struct {
	logger             *slog.Logger
	promRegistry       prometheus.Registerer
	stateStore         state.Store
	proposalSource     ProposalSource
	preferencesSource  PreferencesSource
	decisionMaker      DecisionMaker
	voteExecutor       VoteExecutor
	activityTracker    ActivityTracker
	spaces             []string
	multisigAddress    string
	proposalFetchLimit int
	runInterval        time.Duration
	shutdownTimeout    time.Duration
	dryRun             bool
	dryRunCountsAsCast bool
	tracing            bool
	tracingStdout      bool
}

// ConfigOptionFunc is a type that represents functions that modify the agent config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new govpilot config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:             slog.New(slog.NewJSONHandler(io.Discard, nil)),
		proposalFetchLimit: DefaultProposalFetchLimit,
		runInterval:        DefaultRunInterval,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithStateStore specifies the persistence backend for voting history and
// run checkpoints. The default is an in-memory store
func WithStateStore(store state.Store) ConfigOptionFunc {
	return func(c *Config) {
		c.stateStore = store
	}
}

// WithProposalSource specifies the governance proposal source
func WithProposalSource(source ProposalSource) ConfigOptionFunc {
	return func(c *Config) {
		c.proposalSource = source
	}
}

// WithPreferencesSource specifies the user preferences source
func WithPreferencesSource(source PreferencesSource) ConfigOptionFunc {
	return func(c *Config) {
		c.preferencesSource = source
	}
}

// WithDecisionMaker specifies the external vote decision maker
func WithDecisionMaker(decisionMaker DecisionMaker) ConfigOptionFunc {
	return func(c *Config) {
		c.decisionMaker = decisionMaker
	}
}

// WithVoteExecutor specifies the on-chain vote executor. Not required when
// running with dry-run enabled
func WithVoteExecutor(executor VoteExecutor) ConfigOptionFunc {
	return func(c *Config) {
		c.voteExecutor = executor
	}
}

// WithActivityTracker specifies the external activity tracker. A nil
// tracker disables activity reporting
func WithActivityTracker(tracker ActivityTracker) ConfigOptionFunc {
	return func(c *Config) {
		c.activityTracker = tracker
	}
}

// WithSpaces specifies the governance space(s) to process in serve mode
func WithSpaces(spaces ...string) ConfigOptionFunc {
	return func(c *Config) {
		c.spaces = append(c.spaces, spaces...)
	}
}

// WithMultisigAddress specifies the multisig address reported to the
// activity tracker
func WithMultisigAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.multisigAddress = address
	}
}

// WithProposalFetchLimit specifies the per-space proposal fetch limit
func WithProposalFetchLimit(limit int) ConfigOptionFunc {
	return func(c *Config) {
		c.proposalFetchLimit = limit
	}
}

// WithRunInterval specifies the pause between periodic runs in serve mode
func WithRunInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.runInterval = interval
	}
}

// WithDryRun specifies whether runs decide without submitting votes on-chain
func WithDryRun(dryRun bool) ConfigOptionFunc {
	return func(c *Config) {
		c.dryRun = dryRun
	}
}

// WithDryRunCountsAsCast specifies whether dry-run decisions count toward
// the VOTE_CAST activity classification. The default is false: a dry-run
// submits nothing on-chain, so it reports OPPORTUNITY_CONSIDERED
func WithDryRunCountsAsCast(counts bool) ConfigOptionFunc {
	return func(c *Config) {
		c.dryRunCountsAsCast = counts
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}

func (a *Agent) configValidate() error {
	if a.config.proposalSource == nil {
		return errors.New("no proposal source defined")
	}
	if a.config.preferencesSource == nil {
		return errors.New("no preferences source defined")
	}
	if a.config.decisionMaker == nil {
		return errors.New("no decision maker defined")
	}
	if a.config.voteExecutor == nil && !a.config.dryRun {
		return errors.New("no vote executor defined and dry-run not enabled")
	}
	if a.config.proposalFetchLimit <= 0 {
		return errors.New("proposal fetch limit must be positive")
	}
	return nil
}
