// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bridge

import (
	"github.com/samber/oops"

	"github.com/holomush/npcbridge/internal/npc"
)

// Error codes raised by the router and the bridge lifecycle.
const (
	CodeUnknownEnumerant = "UNKNOWN_ENUMERANT"
	CodeBadArguments     = "BAD_ARGUMENTS"
	CodeUnknownCallback  = "UNKNOWN_CALLBACK"
	CodeBridgeClosed     = "BRIDGE_CLOSED"
)

// ErrUnknownEnumerant creates an error for an enum argument outside its
// closed set. Only raised in strict mode.
func ErrUnknownEnumerant(kind npc.Kind, arg string, value int) error {
	return oops.In("bridge").
		Code(CodeUnknownEnumerant).
		With("kind", kind.String()).
		With("argument", arg).
		With("value", value).
		Errorf("%s: %s %d is not a known enumerant", kind, arg, value)
}

// ErrBadArguments creates an error for raw callback arguments that do not
// match the kind's shape.
func ErrBadArguments(kind npc.Kind, reason string) error {
	return oops.In("bridge").
		Code(CodeBadArguments).
		With("kind", kind.String()).
		Errorf("%s: %s", kind, reason)
}

// ErrUnknownCallback creates an error for a callback name with no kind.
func ErrUnknownCallback(name string) error {
	return oops.In("bridge").
		Code(CodeUnknownCallback).
		With("callback", name).
		Errorf("unknown native callback %q", name)
}

// ErrBridgeClosed is returned by operations on a closed bridge.
func ErrBridgeClosed(op string) error {
	return oops.In("bridge").
		Code(CodeBridgeClosed).
		With("operation", op).
		Errorf("%s: bridge is closed", op)
}
