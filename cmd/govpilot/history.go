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

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quorumlabs/govpilot/internal/agent"
	"github.com/quorumlabs/govpilot/internal/config"
	"github.com/spf13/cobra"
)

func historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the persisted voting history",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			history, err := agent.History(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			if len(history) == 0 {
				fmt.Println("no voting history")
				return
			}
			for i, decision := range history {
				executed := "decided"
				if decision.Executed {
					executed = "executed " + decision.TransactionHash
				}
				fmt.Printf(
					"%2d. %s %s (confidence %.3f, risk %s, strategy %s) [%s]\n",
					i+1,
					decision.ProposalID,
					decision.Vote,
					decision.Confidence,
					decision.RiskAssessment,
					decision.StrategyUsed,
					executed,
				)
			}
		},
	}
	return cmd
}
