// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package trace

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/samp"
)

type argKind int

const (
	argInt argKind = iota
	argFloat
	argString
)

func (k argKind) String() string {
	switch k {
	case argInt:
		return "integer"
	case argFloat:
		return "number"
	default:
		return "string"
	}
}

// directive is a host-side trace statement.
type directive struct {
	usage string
	args  []argKind
	// group, when set, allows the arguments to repeat in groups of len(args),
	// including zero groups.
	group bool
	run   func(r *run, s *Statement, args []any) error
}

// bind type-checks the statement's arguments. Integers are accepted where a
// number is expected.
func (d directive) bind(s *Statement) ([]any, error) {
	n := len(d.args)
	switch {
	case d.group && len(s.Args)%n != 0:
		return nil, ErrBadDirective(s, d.usage, fmt.Sprintf("expected arguments in groups of %d, got %d", n, len(s.Args)))
	case !d.group && len(s.Args) != n:
		return nil, ErrBadDirective(s, d.usage, fmt.Sprintf("expected %d arguments, got %d", n, len(s.Args)))
	}

	out := make([]any, len(s.Args))
	for i, arg := range s.Args {
		want := d.args[i%n]
		switch {
		case want == argInt && arg.Int != nil:
			out[i] = int(*arg.Int)
		case want == argFloat && arg.Int != nil:
			out[i] = float32(*arg.Int)
		case want == argFloat && arg.Float != nil:
			out[i] = float32(*arg.Float)
		case want == argString && arg.Str != nil:
			out[i] = *arg.Str
		default:
			return nil, ErrBadDirective(s, d.usage, fmt.Sprintf("argument %d must be a %s, got %s", i+1, want, arg))
		}
	}
	return out, nil
}

var directives = map[string]directive{
	"create": {usage: "create NAME", args: []argKind{argString}, run: func(r *run, _ *Statement, a []any) error {
		n, err := r.bridge.CreateNPC(a[0].(string))
		if err != nil {
			return err
		}
		r.logger.DebugContext(r.ctx, "npc created", "npc", n.ID(), "name", a[0])
		return nil
	}},
	"destroy": {usage: "destroy NPC", args: []argKind{argInt}, run: withNPC(func(n *npc.NPC, _ []any) error {
		return n.Dispose()
	})},
	"spawn": {usage: "spawn NPC SKIN X Y Z", args: []argKind{argInt, argInt, argFloat, argFloat, argFloat}, run: withNPC(func(n *npc.NPC, a []any) error {
		return n.Spawn(a[1].(int), vec3(a[2:]))
	})},
	"kill": {usage: "kill NPC", args: []argKind{argInt}, run: withNPC(func(n *npc.NPC, _ []any) error {
		return n.Kill()
	})},
	"goto": {usage: "goto NPC X Y Z", args: []argKind{argInt, argFloat, argFloat, argFloat}, run: withNPC(func(n *npc.NPC, a []any) error {
		return n.GoTo(vec3(a[1:]), samp.MoveTypeAuto, samp.MoveSpeedAuto)
	})},
	"connect": {usage: "connect PLAYER", args: []argKind{argInt}, run: func(r *run, _ *Statement, a []any) error {
		_, err := r.bridge.ConnectPlayer(a[0].(int))
		return err
	}},
	"disconnect": {usage: "disconnect PLAYER", args: []argKind{argInt}, run: func(r *run, _ *Statement, a []any) error {
		r.bridge.DisconnectPlayer(a[0].(int))
		return nil
	}},
	"vehicle": {usage: "vehicle VEHICLE", args: []argKind{argInt}, run: func(r *run, _ *Statement, a []any) error {
		_, err := r.bridge.AddVehicle(a[0].(int))
		return err
	}},
	"unvehicle": {usage: "unvehicle VEHICLE", args: []argKind{argInt}, run: func(r *run, _ *Statement, a []any) error {
		r.bridge.RemoveVehicle(a[0].(int))
		return nil
	}},
	"path": {usage: "path [X Y Z]...", args: []argKind{argFloat, argFloat, argFloat}, group: true, run: func(r *run, _ *Statement, a []any) error {
		p, err := r.bridge.CreateMovePath()
		if err != nil {
			return err
		}
		for i := 0; i < len(a); i += 3 {
			if err := p.AddPoint(vec3(a[i:])); err != nil {
				return err
			}
		}
		r.logger.DebugContext(r.ctx, "move path created", "path", p.ID(), "points", len(a)/3)
		return nil
	}},
	"node": {usage: "node NODE", args: []argKind{argInt}, run: func(r *run, _ *Statement, a []any) error {
		_, err := r.bridge.OpenNode(a[0].(int))
		return err
	}},
	"step": {usage: "step", run: func(r *run, s *Statement, _ []any) error {
		if r.stepper == nil {
			return at(s).Code(CodeBadDirective).Errorf("%s: step needs a simulated native layer", s.Pos)
		}
		r.stepper.Step()
		return nil
	}},
}

// withNPC resolves argument 0 to a live NPC handle.
func withNPC(fn func(n *npc.NPC, args []any) error) func(r *run, s *Statement, args []any) error {
	return func(r *run, s *Statement, args []any) error {
		id := args[0].(int)
		n, ok := r.bridge.NPC(id)
		if !ok {
			return at(s).With("npc", id).Errorf("%s: npc %d is not live", s.Pos, id)
		}
		if err := fn(n, args); err != nil {
			return oops.In("trace").With("npc", id).Wrap(err)
		}
		return nil
	}
}

func vec3(a []any) samp.Vec3 {
	return samp.Vec3{X: a[0].(float32), Y: a[1].(float32), Z: a[2].(float32)}
}
