// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package trace parses and replays recorded native event traces.
//
// A trace is line oriented. Each line is a statement: a name followed by
// zero or more values. Names beginning with "FCNPC_" are native callbacks
// routed through the bridge; every other name is a directive that drives the
// host side (creating NPCs, connecting players, stepping the simulation).
//
//	# guard dies to player 7
//	connect 7
//	create "guard"
//	FCNPC_OnDeath 0 7 24
package trace

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// traceLexer tokenizes trace files. EOL is kept so statements can be
// checked for one-per-line.
var traceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Float", Pattern: `[-+]?(\d+\.\d*([eE][-+]?\d+)?|\d+[eE][-+]?\d+)`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

// Trace is a parsed trace file.
type Trace struct {
	Pos        lexer.Position `parser:""`
	Statements []*Statement   `parser:"( EOL | @@ )*"`
}

// Statement is one line of a trace.
type Statement struct {
	Pos  lexer.Position `parser:""`
	Name string         `parser:"@Ident"`
	Args []*Value       `parser:"@@*"`
}

// Value is a statement argument.
type Value struct {
	Pos   lexer.Position `parser:""`
	Float *float64       `parser:"  @Float"`
	Int   *int64         `parser:"| @Int"`
	Str   *string        `parser:"| @String"`
}

// Any returns the value as int, float64 or string.
func (v *Value) Any() any {
	switch {
	case v.Int != nil:
		return int(*v.Int)
	case v.Float != nil:
		return *v.Float
	case v.Str != nil:
		return *v.Str
	default:
		return nil
	}
}

func (v *Value) String() string {
	switch {
	case v.Str != nil:
		return fmt.Sprintf("%q", *v.Str)
	default:
		return fmt.Sprint(v.Any())
	}
}

// IsCallback reports whether the statement is a native callback.
func (s *Statement) IsCallback() bool {
	return strings.HasPrefix(s.Name, callbackPrefix)
}

func (s *Statement) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, arg := range s.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	return b.String()
}

const callbackPrefix = "FCNPC_"

var parser = participle.MustBuild[Trace](
	participle.Lexer(traceLexer),
	participle.Unquote("String"),
)
