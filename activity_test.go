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

import "testing"

func TestActivityTypeValues(t *testing.T) {
	// The integer values match an external contract's enumeration
	if ActivityVoteCast != 0 ||
		ActivityOpportunityConsidered != 1 ||
		ActivityNoOpportunity != 2 {
		t.Fatalf(
			"activity enumeration drifted: %d/%d/%d",
			ActivityVoteCast,
			ActivityOpportunityConsidered,
			ActivityNoOpportunity,
		)
	}
}

func TestClassifyActivity(t *testing.T) {
	testDefs := []struct {
		name               string
		candidateCount     int
		retained           int
		executed           int
		dryRun             bool
		dryRunCountsAsCast bool
		want               ActivityType
	}{
		{
			name: "no candidates",
			want: ActivityNoOpportunity,
		},
		{
			name:           "candidates but nothing retained",
			candidateCount: 3,
			want:           ActivityOpportunityConsidered,
		},
		{
			name:           "executed vote",
			candidateCount: 3,
			retained:       1,
			executed:       1,
			want:           ActivityVoteCast,
		},
		{
			name:           "dry run retained, default",
			candidateCount: 3,
			retained:       2,
			dryRun:         true,
			want:           ActivityOpportunityConsidered,
		},
		{
			name:               "dry run retained, counts as cast",
			candidateCount:     3,
			retained:           2,
			dryRun:             true,
			dryRunCountsAsCast: true,
			want:               ActivityVoteCast,
		},
		{
			name:               "dry run nothing retained, counts as cast",
			candidateCount:     3,
			dryRun:             true,
			dryRunCountsAsCast: true,
			want:               ActivityOpportunityConsidered,
		},
		{
			name:               "no candidates beats dry-run flag",
			dryRun:             true,
			dryRunCountsAsCast: true,
			want:               ActivityNoOpportunity,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			got := classifyActivity(
				testDef.candidateCount,
				testDef.retained,
				testDef.executed,
				testDef.dryRun,
				testDef.dryRunCountsAsCast,
			)
			if got != testDef.want {
				t.Fatalf("got %s, wanted %s", got, testDef.want)
			}
		})
	}
}
