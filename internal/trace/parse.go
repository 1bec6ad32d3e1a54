// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package trace

import (
	"io"

	"github.com/samber/oops"

	"github.com/holomush/npcbridge/internal/npc"
)

// Parse reads a trace and checks every statement against the directive
// table. Errors carry the offending position.
func Parse(filename string, r io.Reader) (*Trace, error) {
	t, err := parser.Parse(filename, r)
	if err != nil {
		return nil, oops.In("trace").Code(CodeSyntax).With("file", filename).Wrapf(err, "parsing trace")
	}
	if err := Check(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseString parses a trace held in memory.
func ParseString(filename, src string) (*Trace, error) {
	t, err := parser.ParseString(filename, src)
	if err != nil {
		return nil, oops.In("trace").Code(CodeSyntax).With("file", filename).Wrapf(err, "parsing trace")
	}
	if err := Check(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Check validates a parsed trace without replaying it: one statement per
// line, every name known, and directive arguments matching their usage.
// Callback arity is checked by the bridge at replay time.
func Check(t *Trace) error {
	line := 0
	for _, s := range t.Statements {
		if s.Pos.Line == line {
			return at(s).Code(CodeSyntax).Errorf("%s: one statement per line", s.Pos)
		}
		line = s.Pos.Line

		if s.IsCallback() {
			if _, ok := npc.KindForCallback(s.Name); !ok {
				return ErrUnknownDirective(s)
			}
			for _, arg := range s.Args {
				if arg.Str != nil {
					return ErrBadDirective(s, s.Name+" NUMBER...", "callback arguments must be numbers")
				}
			}
			continue
		}

		d, ok := directives[s.Name]
		if !ok {
			return ErrUnknownDirective(s)
		}
		if _, err := d.bind(s); err != nil {
			return err
		}
	}
	return nil
}
