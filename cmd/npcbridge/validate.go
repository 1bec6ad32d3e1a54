// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/npcbridge/internal/bridge"
	"github.com/holomush/npcbridge/internal/script"
	scriptlua "github.com/holomush/npcbridge/internal/script/lua"
)

// validateConfig holds flags local to the validate command.
type validateConfig struct {
	tracePath string
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate scripts and traces without replaying",
		Long: `Validates every script manifest against the schema and the bridge
API version, compiles each script's Lua entry, and optionally parses a trace.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines:
  npcbridge validate --scripts ./scripts --trace ./traces/smoke.trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.tracePath, "trace", "", "trace file to check")
	cmd.Flags().String("scripts", "", "scripts directory (default: XDG_DATA_HOME/npcbridge/scripts)")

	return cmd
}

func runValidate(cmd *cobra.Command, vc *validateConfig) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	found, skipped, err := script.NewManager(cfg.Scripts, script.WithAPIVersion(bridge.APIVersion)).Scan(ctx)
	if err != nil {
		return err
	}

	var problems []string
	for _, s := range skipped {
		problems = append(problems, fmt.Sprintf("  %s: %v", s.Dir, s.Err))
	}

	factory := scriptlua.NewStateFactory()
	for _, d := range found {
		code, err := os.ReadFile(d.EntryPath())
		if err == nil {
			err = factory.Compile(d.Manifest.Name, string(code))
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("  %s: %v", d.Manifest.Name, err))
		}
	}

	statements := 0
	if vc.tracePath != "" {
		tr, err := readTrace(vc.tracePath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("  %s: %v", vc.tracePath, err))
		} else {
			statements = len(tr.Statements)
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			logger.ErrorContext(ctx, "validation failed", "detail", p)
		}
		return oops.In("validate").Errorf("validation failed: %d problems", len(problems))
	}

	logger.InfoContext(ctx, "all scripts valid", "scripts", len(found), "trace_statements", statements)
	cmd.Printf("%d scripts valid\n", len(found))
	if vc.tracePath != "" {
		cmd.Printf("%s: %d statements\n", vc.tracePath, statements)
	}
	return nil
}
