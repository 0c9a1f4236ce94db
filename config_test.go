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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.logger == nil {
		t.Fatalf("expected a default logger")
	}
	if cfg.proposalFetchLimit != DefaultProposalFetchLimit {
		t.Fatalf(
			"unexpected default fetch limit: %d",
			cfg.proposalFetchLimit,
		)
	}
	if cfg.runInterval != DefaultRunInterval {
		t.Fatalf("unexpected default run interval: %s", cfg.runInterval)
	}
	if cfg.dryRun || cfg.dryRunCountsAsCast {
		t.Fatalf("dry-run flags must default to false")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithSpaces("aave.eth", "uniswap.eth"),
		WithMultisigAddress("0x123"),
		WithRunInterval(5*time.Minute),
		WithProposalFetchLimit(50),
		WithDryRun(true),
		WithDryRunCountsAsCast(true),
		WithTracing(true),
		WithShutdownTimeout(10*time.Second),
	)
	if len(cfg.spaces) != 2 || cfg.spaces[0] != "aave.eth" {
		t.Fatalf("unexpected spaces: %v", cfg.spaces)
	}
	if cfg.multisigAddress != "0x123" {
		t.Fatalf("unexpected multisig address: %s", cfg.multisigAddress)
	}
	if cfg.runInterval != 5*time.Minute {
		t.Fatalf("unexpected run interval: %s", cfg.runInterval)
	}
	if cfg.proposalFetchLimit != 50 {
		t.Fatalf("unexpected fetch limit: %d", cfg.proposalFetchLimit)
	}
	if !cfg.dryRun || !cfg.dryRunCountsAsCast || !cfg.tracing {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if cfg.shutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.shutdownTimeout)
	}
}

func TestNewAgentValidation(t *testing.T) {
	testDefs := []struct {
		name string
		opts []ConfigOptionFunc
	}{
		{
			name: "missing proposal source",
			opts: []ConfigOptionFunc{
				WithDryRun(true),
				WithPreferencesSource(&fakePreferencesSource{}),
				WithDecisionMaker(approvingDecisionMaker(0.9)),
			},
		},
		{
			name: "missing preferences source",
			opts: []ConfigOptionFunc{
				WithDryRun(true),
				WithProposalSource(&fakeProposalSource{}),
				WithDecisionMaker(approvingDecisionMaker(0.9)),
			},
		},
		{
			name: "missing decision maker",
			opts: []ConfigOptionFunc{
				WithDryRun(true),
				WithProposalSource(&fakeProposalSource{}),
				WithPreferencesSource(&fakePreferencesSource{}),
			},
		},
		{
			name: "no executor without dry-run",
			opts: []ConfigOptionFunc{
				WithProposalSource(&fakeProposalSource{}),
				WithPreferencesSource(&fakePreferencesSource{}),
				WithDecisionMaker(approvingDecisionMaker(0.9)),
			},
		},
		{
			name: "bad fetch limit",
			opts: []ConfigOptionFunc{
				WithDryRun(true),
				WithProposalSource(&fakeProposalSource{}),
				WithPreferencesSource(&fakePreferencesSource{}),
				WithDecisionMaker(approvingDecisionMaker(0.9)),
				WithProposalFetchLimit(0),
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			opts := append(
				[]ConfigOptionFunc{
					WithPrometheusRegistry(prometheus.NewRegistry()),
				},
				testDef.opts...,
			)
			if _, err := New(NewConfig(opts...)); err == nil {
				t.Fatalf("expected a config validation error")
			}
		})
	}
}
