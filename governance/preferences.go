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
	"math"
)

// VotingStrategy is a named policy influencing how the external
// decision-maker weighs risk against opportunity.
type VotingStrategy string

const (
	StrategyConservative VotingStrategy = "conservative"
	StrategyBalanced     VotingStrategy = "balanced"
	StrategyAggressive   VotingStrategy = "aggressive"
)

// Valid returns true if the VotingStrategy is a known strategy
func (s VotingStrategy) Valid() bool {
	switch s {
	case StrategyConservative, StrategyBalanced, StrategyAggressive:
		return true
	default:
		return false
	}
}

// UserPreferences is the per-run voting configuration. It is loaded once at
// the start of an agent run and treated as immutable for the duration.
type UserPreferences struct {
	VotingStrategy       VotingStrategy
	ConfidenceThreshold  float64
	MaxProposalsPerRun   int
	BlacklistedProposers map[string]struct{}
	WhitelistedProposers map[string]struct{}
}

// NewUserPreferences builds a UserPreferences from plain values, converting
// the proposer lists into sets. The result is validated before return.
func NewUserPreferences(
	strategy VotingStrategy,
	confidenceThreshold float64,
	maxProposalsPerRun int,
	blacklisted []string,
	whitelisted []string,
) (*UserPreferences, error) {
	prefs := &UserPreferences{
		VotingStrategy:       strategy,
		ConfidenceThreshold:  confidenceThreshold,
		MaxProposalsPerRun:   maxProposalsPerRun,
		BlacklistedProposers: make(map[string]struct{}, len(blacklisted)),
		WhitelistedProposers: make(map[string]struct{}, len(whitelisted)),
	}
	for _, author := range blacklisted {
		prefs.BlacklistedProposers[author] = struct{}{}
	}
	for _, author := range whitelisted {
		prefs.WhitelistedProposers[author] = struct{}{}
	}
	if err := prefs.Valid(); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Valid checks the preferences invariants
func (p *UserPreferences) Valid() error {
	if p == nil {
		return errors.New("preferences must not be nil")
	}
	if !p.VotingStrategy.Valid() {
		return fmt.Errorf("unknown voting strategy %q", p.VotingStrategy)
	}
	if math.IsNaN(p.ConfidenceThreshold) ||
		p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return fmt.Errorf(
			"confidence threshold %f outside [0,1]",
			p.ConfidenceThreshold,
		)
	}
	if p.MaxProposalsPerRun <= 0 {
		return fmt.Errorf(
			"max proposals per run must be positive, got %d",
			p.MaxProposalsPerRun,
		)
	}
	return nil
}

// IsBlacklisted returns true if the author is in the blacklist
func (p *UserPreferences) IsBlacklisted(author string) bool {
	_, ok := p.BlacklistedProposers[author]
	return ok
}

// IsWhitelisted returns true if the whitelist is empty (everyone allowed)
// or the author appears in it. The blacklist always wins over this.
func (p *UserPreferences) IsWhitelisted(author string) bool {
	if len(p.WhitelistedProposers) == 0 {
		return true
	}
	_, ok := p.WhitelistedProposers[author]
	return ok
}
