// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/npcbridge/internal/bridge"
	"github.com/holomush/npcbridge/internal/config"
	"github.com/holomush/npcbridge/internal/native/sim"
	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/observability"
	"github.com/holomush/npcbridge/internal/script"
	scriptlua "github.com/holomush/npcbridge/internal/script/lua"
	"github.com/holomush/npcbridge/internal/trace"
	"github.com/holomush/npcbridge/pkg/errutil"
)

// replayConfig holds flags local to the replay command.
type replayConfig struct {
	tracePath  string
	jsonOutput bool
	hold       bool
}

// NewReplayCmd creates the replay subcommand.
func NewReplayCmd() *cobra.Command {
	cfg := &replayConfig{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a callback trace against a simulated native layer",
		Long: `Replays a recorded trace of native callbacks and host directives
through the bridge, with discovered scripts attached to every NPC.
Prints each vetoed callback and the routing totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.tracePath, "trace", "", "trace file to replay (required)")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output the result as JSON")
	cmd.Flags().BoolVar(&cfg.hold, "hold", false, "keep serving metrics after the replay until interrupted")
	cmd.Flags().String("scripts", "", "scripts directory (default: XDG_DATA_HOME/npcbridge/scripts)")
	cmd.Flags().Bool("strict-enums", false, "fail callbacks with out-of-range enum arguments")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("trace")

	return cmd
}

// replaySummary is the JSON form of a replay result.
type replaySummary struct {
	RunID      string           `json:"run_id"`
	Scripts    int              `json:"scripts"`
	Statements int              `json:"statements"`
	Callbacks  int              `json:"callbacks"`
	Vetoed     []trace.Callback `json:"vetoed"`
	Stats      bridge.Stats     `json:"stats"`
}

func runReplay(cmd *cobra.Command, rc *replayConfig) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	tr, err := readTrace(rc.tracePath)
	if err != nil {
		return err
	}

	plugin := sim.New(simOptions(cfg)...)
	b := bridge.New(plugin, bridgeOptions(cfg, logger)...)
	plugin.SetSink(b.Sink())
	host := scriptlua.NewHost(b, scriptlua.WithLogger(logger))
	defer shutdown(logger, host, b)

	found, err := script.NewManager(cfg.Scripts,
		script.WithAPIVersion(bridge.APIVersion),
		script.WithLogger(logger),
	).Discover(ctx)
	if err != nil {
		return err
	}
	loaded := host.LoadAll(ctx, found)

	// The bridge is single-threaded. The HTTP side only reads the snapshot
	// taken once the replay ends, and reports ready from then on.
	var status atomic.Pointer[statusSnapshot]
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr,
			observability.WithReadiness(func() bool { return status.Load() != nil }),
			observability.WithCollectors(bridge.RegisterMetrics, scriptlua.RegisterMetrics),
			observability.WithStatus(func() any { return status.Load() }),
			observability.WithLogger(logger),
		)
		if _, err := obsServer.Start(); err != nil {
			return oops.In("replay").Hint("failed to start observability server").Wrap(err)
		}
		defer stopServer(logger, obsServer)
	}

	res, err := trace.Replay(ctx, b, tr, trace.WithStepper(plugin), trace.WithLogger(logger))
	if obsServer != nil {
		obsServer.Metrics().RecordReplay(res.Statements, err)
	}
	status.Store(bridgeStatus(b, host))
	if err != nil {
		errutil.LogErrorContext(ctx, logger, "replay failed", err)
		return err
	}

	summary := replaySummary{
		RunID:      res.RunID.String(),
		Scripts:    loaded,
		Statements: res.Statements,
		Callbacks:  len(res.Callbacks),
		Vetoed:     res.Vetoed(),
		Stats:      res.Stats,
	}
	if err := writeSummary(cmd.OutOrStdout(), summary, rc.jsonOutput); err != nil {
		return err
	}

	if rc.hold && obsServer != nil {
		waitForSignal(ctx, logger, obsServer.Addr())
	}
	return nil
}

// statusSnapshot is served on the observability status endpoint.
type statusSnapshot struct {
	NPCs    []int        `json:"npcs"`
	Scripts []string     `json:"scripts"`
	Stats   bridge.Stats `json:"stats"`
}

func bridgeStatus(b *bridge.Bridge, host *scriptlua.Host) *statusSnapshot {
	s := &statusSnapshot{Scripts: host.Scripts(), Stats: b.Stats()}
	for _, n := range b.NPCs() {
		s.NPCs = append(s.NPCs, n.ID())
	}
	return s
}

func readTrace(path string) (*trace.Trace, error) {
	f, err := os.Open(path) //nolint:gosec // path is an operator-supplied flag
	if err != nil {
		return nil, oops.In("replay").With("trace", path).Hint("failed to open trace").Wrap(err)
	}
	defer func() { _ = f.Close() }()
	return trace.Parse(path, f)
}

func simOptions(cfg *config.Config) []sim.Option {
	var opts []sim.Option
	if n := cfg.Capacity[npc.EntityNPC]; n > 0 {
		opts = append(opts, sim.WithMaxNPCs(n))
	}
	return opts
}

func bridgeOptions(cfg *config.Config, logger *slog.Logger) []bridge.Option {
	opts := []bridge.Option{
		bridge.WithStrictEnums(cfg.StrictEnums),
		bridge.WithLogger(logger),
	}
	for entity, n := range cfg.Capacity {
		opts = append(opts, bridge.WithCapacity(entity, n))
	}
	return opts
}

func writeSummary(w io.Writer, s replaySummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return oops.In("replay").Wrap(err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RUN\t%s\n", s.RunID)
	fmt.Fprintf(tw, "SCRIPTS\t%d\n", s.Scripts)
	fmt.Fprintf(tw, "STATEMENTS\t%d\n", s.Statements)
	fmt.Fprintf(tw, "CALLBACKS\t%d\n", s.Callbacks)
	fmt.Fprintf(tw, "DISPATCHED\t%d\n", s.Stats.Dispatched)
	fmt.Fprintf(tw, "DROPPED\t%d\n", s.Stats.Dropped)
	fmt.Fprintf(tw, "FAILED\t%d\n", s.Stats.Failed)
	fmt.Fprintf(tw, "VETOED\t%d\n", s.Stats.Vetoed)
	for _, v := range s.Vetoed {
		fmt.Fprintf(tw, "  line %d\t%s npc %d\n", v.Line, v.Name, v.NPC)
	}
	if err := tw.Flush(); err != nil {
		return oops.In("replay").Wrap(err)
	}
	return nil
}

func waitForSignal(ctx context.Context, logger *slog.Logger, addr string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.InfoContext(ctx, "holding metrics server until interrupted", "addr", addr)
	<-ctx.Done()
}

func stopServer(logger *slog.Logger, s *observability.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}
}

func shutdown(logger *slog.Logger, host *scriptlua.Host, b *bridge.Bridge) {
	if err := host.Close(); err != nil {
		errutil.LogError(logger, "error closing script host", err)
	}
	if err := b.Close(); err != nil {
		errutil.LogError(logger, "error closing bridge", err)
	}
}
