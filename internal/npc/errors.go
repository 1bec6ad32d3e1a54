// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import "github.com/samber/oops"

// Error codes for handle operations.
const (
	CodeNativeFailure = "NATIVE_FAILURE"
	CodeBadReference  = "BAD_REFERENCE"
)

// ErrNativeFailure creates an error for a native call that reported failure.
func ErrNativeFailure(kind string, id int, op string) error {
	return oops.In("npc").
		Code(CodeNativeFailure).
		With("kind", kind).
		With("id", id).
		With("operation", op).
		Errorf("%s %d: native %s failed", kind, id, op)
}

// ErrBadReference creates an error for a nil handle argument.
func ErrBadReference(kind string, id int, op, arg string) error {
	return oops.In("npc").
		Code(CodeBadReference).
		With("kind", kind).
		With("id", id).
		With("operation", op).
		With("argument", arg).
		Errorf("%s %d: %s requires a %s", kind, id, op, arg)
}

// ok converts a native boolean result into an error.
func ok(result bool, kind string, id int, op string) error {
	if !result {
		return ErrNativeFailure(kind, id, op)
	}
	return nil
}
