// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pool

import (
	"github.com/samber/oops"
)

// Error codes for pool and handle lifecycle failures.
const (
	CodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeUseAfterDispose     = "USE_AFTER_DISPOSE"
)

// ErrDuplicateIdentifier creates an error for an acquire of an identifier
// that already has a live handle.
func ErrDuplicateIdentifier(kind string, id int) error {
	return oops.In("pool").
		Code(CodeDuplicateIdentifier).
		With("kind", kind).
		With("id", id).
		Errorf("%s %d already has a live handle", kind, id)
}

// ErrInvalidIdentifier creates an error for an identifier outside the pool's range.
func ErrInvalidIdentifier(kind string, id, capacity int) error {
	return oops.In("pool").
		Code(CodeInvalidIdentifier).
		With("kind", kind).
		With("id", id).
		With("capacity", capacity).
		Errorf("%s id %d is out of range", kind, id)
}

// ErrUseAfterDispose creates an error for an operation on a disposed handle.
func ErrUseAfterDispose(kind string, id int, op string) error {
	return oops.In("pool").
		Code(CodeUseAfterDispose).
		With("kind", kind).
		With("id", id).
		With("operation", op).
		Errorf("%s %d: %s called after dispose", kind, id, op)
}
