// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package trace

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/holomush/npcbridge/internal/bridge"
)

var tracer = otel.Tracer("npcbridge/trace")

// Stepper advances a simulated native layer, completing pending movement.
type Stepper interface {
	Step()
}

// Callback is the outcome of one replayed native callback.
type Callback struct {
	Line      int    `json:"line"`
	Name      string `json:"name"`
	NPC       int    `json:"npc"`
	Propagate bool   `json:"propagate"`
}

// Result summarises a replay.
type Result struct {
	RunID      ulid.ULID
	Statements int
	Callbacks  []Callback
	Stats      bridge.Stats
}

// Vetoed returns the callbacks whose native default was suppressed.
func (r *Result) Vetoed() []Callback {
	var out []Callback
	for _, cb := range r.Callbacks {
		if !cb.Propagate {
			out = append(out, cb)
		}
	}
	return out
}

// Option configures a replay.
type Option func(*run)

// WithStepper enables the step directive.
func WithStepper(s Stepper) Option {
	return func(r *run) {
		r.stepper = s
	}
}

// WithLogger sets the replay logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *run) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id ulid.ULID) Option {
	return func(r *run) {
		r.id = id
	}
}

type run struct {
	ctx     context.Context
	id      ulid.ULID
	bridge  *bridge.Bridge
	stepper Stepper
	logger  *slog.Logger
}

// Replay applies the trace's statements to b in order. Directives drive the
// host side; callbacks are routed through b and their propagate results are
// recorded. Replay stops at the first failing statement and returns the
// partial result with the error.
func Replay(ctx context.Context, b *bridge.Bridge, t *Trace, opts ...Option) (result *Result, err error) {
	r := &run{bridge: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == (ulid.ULID{}) {
		r.id = ulid.Make()
	}

	ctx, span := tracer.Start(ctx, "trace.replay",
		oteltrace.WithAttributes(
			attribute.String("trace.run_id", r.id.String()),
			attribute.Int("trace.statements", len(t.Statements)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	r.ctx = ctx

	result = &Result{RunID: r.id}
	defer func() {
		result.Stats = b.Stats()
	}()

	for _, s := range t.Statements {
		if err = ctx.Err(); err != nil {
			return result, oops.In("trace").With("run_id", r.id.String()).Wrap(err)
		}
		if err = r.statement(s, result); err != nil {
			return result, err
		}
		result.Statements++
	}

	r.logger.InfoContext(ctx, "trace replayed",
		"run_id", r.id.String(),
		"statements", result.Statements,
		"callbacks", len(result.Callbacks),
		"vetoed", len(result.Vetoed()),
	)
	return result, nil
}

func (r *run) statement(s *Statement, result *Result) (err error) {
	_, span := tracer.Start(r.ctx, "trace.statement",
		oteltrace.WithAttributes(
			attribute.String("statement.name", s.Name),
			attribute.Int("statement.line", s.Pos.Line),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.IsCallback() {
		args := make([]any, len(s.Args))
		for i, arg := range s.Args {
			args[i] = arg.Any()
		}
		propagate, err := r.bridge.OnCallback(s.Name, args...)
		if err != nil {
			return at(s).Code(CodeStatementFailed).With("run_id", r.id.String()).Wrapf(err, "%s: %s", s.Pos, s.Name)
		}
		cb := Callback{Line: s.Pos.Line, Name: s.Name, NPC: -1, Propagate: propagate}
		if len(args) > 0 {
			if id, ok := args[0].(int); ok {
				cb.NPC = id
			}
		}
		span.SetAttributes(attribute.Bool("callback.propagate", propagate))
		result.Callbacks = append(result.Callbacks, cb)
		return nil
	}

	d, ok := directives[s.Name]
	if !ok {
		return ErrUnknownDirective(s)
	}
	args, err := d.bind(s)
	if err != nil {
		return err
	}
	if err := d.run(r, s, args); err != nil {
		return at(s).Code(CodeStatementFailed).With("run_id", r.id.String()).Wrapf(err, "%s: %s", s.Pos, s.Name)
	}
	return nil
}
