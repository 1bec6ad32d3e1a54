// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import (
	"fmt"

	"github.com/holomush/npcbridge/internal/native"
	"github.com/holomush/npcbridge/internal/pool"
	"github.com/holomush/npcbridge/internal/samp"
)

// MovePath is a plugin-side list of points an NPC can walk along.
type MovePath struct {
	pool.Lifecycle

	natives native.MovePathNatives
	release func(*MovePath)
}

// NewMovePath creates a move path handle. It is meant to be used as a pool
// factory.
func NewMovePath(natives native.MovePathNatives, release func(*MovePath)) *MovePath {
	return &MovePath{natives: natives, release: release}
}

// AddPoint appends pos to the path.
func (m *MovePath) AddPoint(pos samp.Vec3) error {
	if err := m.Check("add_point"); err != nil {
		return err
	}
	return ok(m.natives.AddPointToPath(m.ID(), pos), EntityMovePath, m.ID(), "add_point")
}

// AddPoints appends every point in order with a single native call.
func (m *MovePath) AddPoints(points ...samp.Vec3) error {
	if err := m.Check("add_points"); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	return ok(m.natives.AddPointsToPath(m.ID(), points), EntityMovePath, m.ID(), "add_points")
}

// RemovePoint removes the point at index.
func (m *MovePath) RemovePoint(index int) error {
	if err := m.Check("remove_point"); err != nil {
		return err
	}
	return ok(m.natives.RemovePointFromPath(m.ID(), index), EntityMovePath, m.ID(), "remove_point")
}

// Point returns the point at index.
func (m *MovePath) Point(index int) (samp.Vec3, error) {
	if err := m.Check("point"); err != nil {
		return samp.Vec3{}, err
	}
	pos, found := m.natives.MovePoint(m.ID(), index)
	if !found {
		return samp.Vec3{}, ErrNativeFailure(EntityMovePath, m.ID(), "point")
	}
	return pos, nil
}

// IsValidPoint reports whether index addresses a point on the path.
func (m *MovePath) IsValidPoint(index int) (bool, error) {
	if err := m.Check("is_valid_point"); err != nil {
		return false, err
	}
	return m.natives.IsValidMovePoint(m.ID(), index), nil
}

// Len returns the number of points on the path.
func (m *MovePath) Len() (int, error) {
	if err := m.Check("len"); err != nil {
		return 0, err
	}
	return m.natives.MovePointCount(m.ID()), nil
}

// Dispose destroys the path natively and releases the handle. Idempotent.
func (m *MovePath) Dispose() error {
	if m.Disposed() {
		return nil
	}
	if m.natives.IsValidMovePath(m.ID()) {
		m.natives.DestroyMovePath(m.ID())
	}
	if m.release != nil {
		m.release(m)
	}
	return nil
}

func (m *MovePath) String() string { return fmt.Sprintf("movepath %d", m.ID()) }
