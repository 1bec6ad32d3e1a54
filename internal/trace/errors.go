// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package trace

import (
	"github.com/samber/oops"
)

// Error codes for trace failures.
const (
	CodeSyntax           = "TRACE_SYNTAX"
	CodeUnknownDirective = "UNKNOWN_DIRECTIVE"
	CodeBadDirective     = "BAD_DIRECTIVE"
	CodeStatementFailed  = "STATEMENT_FAILED"
)

// at returns an error builder carrying the statement's position.
func at(s *Statement) oops.OopsErrorBuilder {
	return oops.In("trace").
		With("line", s.Pos.Line).
		With("column", s.Pos.Column).
		With("statement", s.Name)
}

// ErrUnknownDirective is returned for a statement name that is neither a
// directive nor a known native callback.
func ErrUnknownDirective(s *Statement) error {
	return at(s).Code(CodeUnknownDirective).Errorf("%s: unknown directive %q", s.Pos, s.Name)
}

// ErrBadDirective is returned when a directive's arguments do not match its
// usage.
func ErrBadDirective(s *Statement, usage, reason string) error {
	return at(s).Code(CodeBadDirective).With("usage", usage).Errorf("%s: %s: %s", s.Pos, s.Name, reason)
}
