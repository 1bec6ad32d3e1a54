// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package npc defines the managed handles for plugin entities and the typed
// notifications delivered to their observers.
//
// Handles are created and released only by their owning pool. Every operation
// except ID, State, Register and Unregister fails with USE_AFTER_DISPOSE once
// the handle is disposed.
package npc

import (
	"fmt"

	"github.com/holomush/npcbridge/internal/native"
	"github.com/holomush/npcbridge/internal/pool"
	"github.com/holomush/npcbridge/internal/samp"
)

// Compile-time interface check.
var _ Observable = (*NPC)(nil)

// NPC is the managed handle for one plugin-controlled character.
type NPC struct {
	pool.Lifecycle
	observers

	name    string
	natives native.NPCNatives
	release func(*NPC)
	players func(id int) (*Player, bool)
}

// Deps are the collaborators an NPC handle calls back into.
type Deps struct {
	Natives native.NPCNatives
	// Release removes the handle from its pool if it is still registered.
	Release func(*NPC)
	// Players resolves player identifiers.
	Players func(id int) (*Player, bool)
}

// New creates an NPC handle. It is meant to be used as a pool factory.
func New(name string, deps Deps) *NPC {
	return &NPC{
		name:    name,
		natives: deps.Natives,
		release: deps.Release,
		players: deps.Players,
	}
}

// Dispatch delivers n to the observers registered for its kind. Only the
// notification router calls this.
func (n *NPC) Dispatch(notification Notification) {
	n.dispatch(notification)
}

// Name returns the name the NPC was created with.
func (n *NPC) Name() (string, error) {
	if err := n.Check("name"); err != nil {
		return "", err
	}
	return n.name, nil
}

// Player returns the player handle sharing this NPC's identifier, or nil if
// the host has not registered it.
func (n *NPC) Player() (*Player, error) {
	if err := n.Check("player"); err != nil {
		return nil, err
	}
	if n.players == nil {
		return nil, nil
	}
	p, _ := n.players(n.ID())
	return p, nil
}

// IsValid reports whether the plugin still knows this NPC.
func (n *NPC) IsValid() (bool, error) {
	if err := n.Check("is_valid"); err != nil {
		return false, err
	}
	return n.natives.IsValid(n.ID()), nil
}

// Spawn spawns the NPC with skin at pos.
func (n *NPC) Spawn(skin int, pos samp.Vec3) error {
	if err := n.Check("spawn"); err != nil {
		return err
	}
	return ok(n.natives.Spawn(n.ID(), skin, pos), EntityNPC, n.ID(), "spawn")
}

// Respawn respawns the NPC at its spawn point.
func (n *NPC) Respawn() error {
	if err := n.Check("respawn"); err != nil {
		return err
	}
	return ok(n.natives.Respawn(n.ID()), EntityNPC, n.ID(), "respawn")
}

// Kill kills the NPC.
func (n *NPC) Kill() error {
	if err := n.Check("kill"); err != nil {
		return err
	}
	return ok(n.natives.Kill(n.ID()), EntityNPC, n.ID(), "kill")
}

// IsSpawned reports whether the NPC is spawned.
func (n *NPC) IsSpawned() (bool, error) {
	if err := n.Check("is_spawned"); err != nil {
		return false, err
	}
	return n.natives.IsSpawned(n.ID()), nil
}

// IsDead reports whether the NPC is dead.
func (n *NPC) IsDead() (bool, error) {
	if err := n.Check("is_dead"); err != nil {
		return false, err
	}
	return n.natives.IsDead(n.ID()), nil
}

// Position returns the NPC's position.
func (n *NPC) Position() (samp.Vec3, error) {
	if err := n.Check("position"); err != nil {
		return samp.Vec3{}, err
	}
	return n.natives.Position(n.ID()), nil
}

// SetPosition teleports the NPC.
func (n *NPC) SetPosition(pos samp.Vec3) error {
	if err := n.Check("set_position"); err != nil {
		return err
	}
	return ok(n.natives.SetPosition(n.ID(), pos), EntityNPC, n.ID(), "set_position")
}

// Health returns the NPC's health.
func (n *NPC) Health() (float32, error) {
	if err := n.Check("health"); err != nil {
		return 0, err
	}
	return n.natives.Health(n.ID()), nil
}

// SetHealth sets the NPC's health.
func (n *NPC) SetHealth(health float32) error {
	if err := n.Check("set_health"); err != nil {
		return err
	}
	return ok(n.natives.SetHealth(n.ID(), health), EntityNPC, n.ID(), "set_health")
}

// Armour returns the NPC's body armour.
func (n *NPC) Armour() (float32, error) {
	if err := n.Check("armour"); err != nil {
		return 0, err
	}
	return n.natives.Armour(n.ID()), nil
}

// SetArmour sets the NPC's body armour.
func (n *NPC) SetArmour(armour float32) error {
	if err := n.Check("set_armour"); err != nil {
		return err
	}
	return ok(n.natives.SetArmour(n.ID(), armour), EntityNPC, n.ID(), "set_armour")
}

// Weapon returns the held weapon.
func (n *NPC) Weapon() (samp.Weapon, error) {
	if err := n.Check("weapon"); err != nil {
		return 0, err
	}
	return samp.Weapon(n.natives.Weapon(n.ID())), nil
}

// SetWeapon sets the held weapon.
func (n *NPC) SetWeapon(w samp.Weapon) error {
	if err := n.Check("set_weapon"); err != nil {
		return err
	}
	return ok(n.natives.SetWeapon(n.ID(), int(w)), EntityNPC, n.ID(), "set_weapon")
}

// Ammo returns the ammo of the held weapon.
func (n *NPC) Ammo() (int, error) {
	if err := n.Check("ammo"); err != nil {
		return 0, err
	}
	return n.natives.Ammo(n.ID()), nil
}

// SetAmmo sets the ammo of the held weapon.
func (n *NPC) SetAmmo(ammo int) error {
	if err := n.Check("set_ammo"); err != nil {
		return err
	}
	return ok(n.natives.SetAmmo(n.ID(), ammo), EntityNPC, n.ID(), "set_ammo")
}

// GoTo moves the NPC towards pos. A destination-reached notification follows
// on arrival.
func (n *NPC) GoTo(pos samp.Vec3, moveType samp.MoveType, speed float32) error {
	if err := n.Check("go_to"); err != nil {
		return err
	}
	return ok(n.natives.GoTo(n.ID(), pos, int(moveType), speed), EntityNPC, n.ID(), "go_to")
}

// GoToPlayer moves the NPC towards p.
func (n *NPC) GoToPlayer(p *Player, moveType samp.MoveType, speed float32) error {
	if err := n.Check("go_to_player"); err != nil {
		return err
	}
	if err := n.checkRef("go_to_player", EntityPlayer, p == nil, p); err != nil {
		return err
	}
	return ok(n.natives.GoToPlayer(n.ID(), p.ID(), int(moveType), speed), EntityNPC, n.ID(), "go_to_player")
}

// Stop halts any movement.
func (n *NPC) Stop() error {
	if err := n.Check("stop"); err != nil {
		return err
	}
	return ok(n.natives.Stop(n.ID()), EntityNPC, n.ID(), "stop")
}

// IsMoving reports whether the NPC is moving.
func (n *NPC) IsMoving() (bool, error) {
	if err := n.Check("is_moving"); err != nil {
		return false, err
	}
	return n.natives.IsMoving(n.ID()), nil
}

// AimAt aims at pos, optionally shooting every shootDelay milliseconds
// (-1 uses the weapon's default).
func (n *NPC) AimAt(pos samp.Vec3, shoot bool, shootDelay int) error {
	if err := n.Check("aim_at"); err != nil {
		return err
	}
	return ok(n.natives.AimAt(n.ID(), pos, shoot, shootDelay), EntityNPC, n.ID(), "aim_at")
}

// AimAtPlayer aims at p.
func (n *NPC) AimAtPlayer(p *Player, shoot bool, shootDelay int) error {
	if err := n.Check("aim_at_player"); err != nil {
		return err
	}
	if err := n.checkRef("aim_at_player", EntityPlayer, p == nil, p); err != nil {
		return err
	}
	return ok(n.natives.AimAtPlayer(n.ID(), p.ID(), shoot, shootDelay), EntityNPC, n.ID(), "aim_at_player")
}

// StopAim stops aiming.
func (n *NPC) StopAim() error {
	if err := n.Check("stop_aim"); err != nil {
		return err
	}
	return ok(n.natives.StopAim(n.ID()), EntityNPC, n.ID(), "stop_aim")
}

// EnterVehicle walks to v and enters it at seat.
func (n *NPC) EnterVehicle(v *Vehicle, seat int, moveType samp.MoveType) error {
	if err := n.Check("enter_vehicle"); err != nil {
		return err
	}
	if err := n.checkRef("enter_vehicle", EntityVehicle, v == nil, v); err != nil {
		return err
	}
	return ok(n.natives.EnterVehicle(n.ID(), v.ID(), seat, int(moveType)), EntityNPC, n.ID(), "enter_vehicle")
}

// ExitVehicle leaves the current vehicle.
func (n *NPC) ExitVehicle() error {
	if err := n.Check("exit_vehicle"); err != nil {
		return err
	}
	return ok(n.natives.ExitVehicle(n.ID()), EntityNPC, n.ID(), "exit_vehicle")
}

// PlayNode starts following node.
func (n *NPC) PlayNode(node *Node, moveType samp.MoveType, speed float32) error {
	if err := n.Check("play_node"); err != nil {
		return err
	}
	if err := n.checkRef("play_node", EntityNode, node == nil, node); err != nil {
		return err
	}
	return ok(n.natives.PlayNode(n.ID(), node.ID(), int(moveType), speed), EntityNPC, n.ID(), "play_node")
}

// StopPlayingNode stops node playback.
func (n *NPC) StopPlayingNode() error {
	if err := n.Check("stop_playing_node"); err != nil {
		return err
	}
	return ok(n.natives.StopPlayingNode(n.ID()), EntityNPC, n.ID(), "stop_playing_node")
}

// GoByMovePath follows path.
func (n *NPC) GoByMovePath(path *MovePath, moveType samp.MoveType, speed float32) error {
	if err := n.Check("go_by_move_path"); err != nil {
		return err
	}
	if err := n.checkRef("go_by_move_path", EntityMovePath, path == nil, path); err != nil {
		return err
	}
	return ok(n.natives.GoByMovePath(n.ID(), path.ID(), int(moveType), speed), EntityNPC, n.ID(), "go_by_move_path")
}

// Dispose destroys the NPC natively and releases the handle. The plugin's
// destroy callback runs before Dispose returns, while the handle is still
// live, so destroyed observers fire. Disposing twice is a no-op.
func (n *NPC) Dispose() error {
	if n.Disposed() {
		return nil
	}
	if n.natives.IsValid(n.ID()) {
		n.natives.Destroy(n.ID())
	}
	if n.release != nil {
		n.release(n)
	}
	return nil
}

func (n *NPC) String() string {
	return fmt.Sprintf("%s (%d)", n.name, n.ID())
}
