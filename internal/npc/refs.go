// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import (
	"fmt"

	"github.com/holomush/npcbridge/internal/pool"
)

// Entity kind names used for pools and error context.
const (
	EntityNPC      = "npc"
	EntityMovePath = "movepath"
	EntityNode     = "node"
	EntityPlayer   = "player"
	EntityVehicle  = "vehicle"
)

// Player is a connected player as registered by the host runtime. Players
// only appear as resolved references inside notifications.
type Player struct {
	pool.Lifecycle
}

// NewPlayer is the pool factory for players.
func NewPlayer(int) *Player { return &Player{} }

func (p *Player) String() string { return fmt.Sprintf("player %d", p.ID()) }

// Vehicle is a vehicle as registered by the host runtime.
type Vehicle struct {
	pool.Lifecycle
}

// NewVehicle is the pool factory for vehicles.
func NewVehicle(int) *Vehicle { return &Vehicle{} }

func (v *Vehicle) String() string { return fmt.Sprintf("vehicle %d", v.ID()) }

// checkRef validates a handle argument passed to an NPC operation. isNil
// must be computed on the concrete pointer before it is boxed into h.
func (n *NPC) checkRef(op, arg string, isNil bool, h pool.Handle) error {
	if isNil {
		return ErrBadReference(EntityNPC, n.ID(), op, arg)
	}
	if h.State() == pool.Disposed {
		return pool.ErrUseAfterDispose(arg, h.ID(), op)
	}
	return nil
}
