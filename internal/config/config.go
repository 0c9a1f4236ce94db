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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/quorumlabs/govpilot/state"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "govpilot.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const DefaultStatePlugin = state.PluginSqlite

// RunMode represents the operational mode of the govpilot agent
type RunMode string

const (
	RunModeServe RunMode = "serve" // Periodic runs on an interval (default)
	RunModeOnce  RunMode = "once"  // Single run, then exit
	RunModeDev   RunMode = "dev"   // Development mode (dry-run forced, memory state)
)

// Valid returns true if the RunMode is a known valid mode
func (m RunMode) Valid() bool {
	switch m {
	case RunModeServe, RunModeOnce, RunModeDev, "":
		return true
	default:
		return false
	}
}

// IsDevMode returns true if the mode enables development behaviors
// (forced dry-run, in-memory state)
func (m RunMode) IsDevMode() bool {
	return m == RunModeDev
}

type Config struct {
	Spaces               []string `yaml:"spaces"                                                            split_words:"true"`
	Strategy             string   `yaml:"strategy"`
	ConfidenceThreshold  float64  `yaml:"confidenceThreshold"                                               split_words:"true"`
	MaxProposalsPerRun   int      `yaml:"maxProposalsPerRun"                                                split_words:"true"`
	BlacklistedProposers []string `yaml:"blacklistedProposers"                                              split_words:"true"`
	WhitelistedProposers []string `yaml:"whitelistedProposers"                                              split_words:"true"`
	ProposalFetchLimit   int      `yaml:"proposalFetchLimit"                                                split_words:"true"`
	ProposalsFile        string   `yaml:"proposalsFile"                                                     split_words:"true"`
	RunInterval          string   `yaml:"runInterval"                                                       split_words:"true"`
	DryRun               bool     `yaml:"dryRun"                                                            split_words:"true"`
	DryRunCountsAsCast   bool     `yaml:"dryRunCountsAsCast"   envconfig:"GOVPILOT_DRY_RUN_COUNTS_AS_CAST"`
	StatePlugin          string   `yaml:"statePlugin"          envconfig:"GOVPILOT_STATE_PLUGIN"`
	DataDir              string   `yaml:"dataDir"                                                           split_words:"true"`
	BindAddr             string   `yaml:"bindAddr"                                                          split_words:"true"`
	MetricsPort          uint     `yaml:"metricsPort"                                                       split_words:"true"`
	MultisigAddress      string   `yaml:"multisigAddress"                                                   split_words:"true"`
	Tracing              bool     `yaml:"tracing"`
	TracingStdout        bool     `yaml:"tracingStdout"                                                     split_words:"true"`
	ShutdownTimeout      string   `yaml:"shutdownTimeout"                                                   split_words:"true"`
	RunMode              RunMode  `yaml:"runMode"              envconfig:"GOVPILOT_RUN_MODE"`
}

var globalConfig = &Config{
	Strategy:            "balanced",
	ConfidenceThreshold: 0.7,
	MaxProposalsPerRun:  3,
	ProposalFetchLimit:  20,
	RunInterval:         "30m",
	StatePlugin:         DefaultStatePlugin,
	DataDir:             ".govpilot",
	BindAddr:            "0.0.0.0",
	MetricsPort:         12080,
	ShutdownTimeout:     DefaultShutdownTimeout,
	RunMode:             RunModeServe,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.govpilot/govpilot.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".govpilot", "govpilot.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/govpilot/govpilot.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/govpilot/govpilot.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Overlay config values onto existing defaults
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("govpilot", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Validate and default RunMode
	if !globalConfig.RunMode.Valid() {
		return nil, fmt.Errorf(
			"invalid runMode: %q (must be 'serve', 'once', or 'dev')",
			globalConfig.RunMode,
		)
	}
	if globalConfig.RunMode == "" {
		globalConfig.RunMode = RunModeServe
	}

	switch globalConfig.StatePlugin {
	case state.PluginSqlite, state.PluginBadger, state.PluginMemory:
	default:
		return nil, fmt.Errorf(
			"invalid statePlugin: %q (must be 'sqlite', 'badger', or 'memory')",
			globalConfig.StatePlugin,
		)
	}

	// Dev mode never touches the chain or the disk
	if globalConfig.RunMode.IsDevMode() {
		globalConfig.DryRun = true
		globalConfig.StatePlugin = state.PluginMemory
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
