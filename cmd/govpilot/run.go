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
	"log/slog"
	"os"

	"github.com/quorumlabs/govpilot/internal/agent"
	"github.com/quorumlabs/govpilot/internal/config"
	"github.com/spf13/cobra"
)

var runFlags = struct {
	dryRun bool
}{}

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Perform a single agent run per configured space, then exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			cfg.RunMode = config.RunModeOnce
			if runFlags.dryRun {
				cfg.DryRun = true
			}
			if len(cfg.Spaces) == 0 {
				slog.Error("no governance spaces configured")
				os.Exit(1)
			}
			if err := agent.Run(cfg, logger); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().
		BoolVar(&runFlags.dryRun, "dry-run", false, "decide without submitting votes")
	return cmd
}
