// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package samp defines the game enumerations and constants shared with the
// native NPC plugin.
//
// Values arriving from the native layer are converted with a plain type
// conversion, so unknown enumerants survive untouched. Valid reports whether a
// value belongs to the closed set known to this package.
package samp

// Native identifier constants.
const (
	// InvalidID is the sentinel the native layer returns for a failed
	// player, NPC or vehicle allocation.
	InvalidID = 0xFFFF
	// InvalidMovePathID is returned when a move path cannot be created.
	InvalidMovePathID = -1
	// MaxPlayers bounds player and NPC identifiers.
	MaxPlayers = 1000
	// MaxVehicles bounds vehicle identifiers.
	MaxVehicles = 2000
	// MaxNodes bounds node identifiers.
	MaxNodes = 64
	// IncludeVersion is the plugin include version these bindings track.
	IncludeVersion = 180
)

// Vec3 is a position or offset in world units.
type Vec3 struct {
	X, Y, Z float32
}
