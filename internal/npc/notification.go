// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import "github.com/holomush/npcbridge/internal/samp"

// Notification is one occurrence delivered to an NPC's observers.
//
// Handle fields (*Player, *Vehicle, *MovePath, *Node) are resolved when the
// notification is built. They are nil when the identifier had no live handle,
// and may be disposed by the time an observer looks at them.
type Notification interface {
	Kind() Kind
}

// Created is delivered when the plugin reports the NPC was created.
type Created struct{}

// Destroyed is delivered when the plugin destroys the NPC.
type Destroyed struct{}

// Spawned is delivered when the NPC spawns.
type Spawned struct{}

// Respawned is delivered when the NPC respawns.
type Respawned struct{}

// Died is delivered when the NPC dies.
type Died struct {
	Killer   *Player
	KillerID int
	Weapon   samp.Weapon
}

// VehicleEntryCompleted is delivered when the NPC finished entering a vehicle.
type VehicleEntryCompleted struct {
	Vehicle   *Vehicle
	VehicleID int
	Seat      int
}

// VehicleExitCompleted is delivered when the NPC finished leaving a vehicle.
type VehicleExitCompleted struct{}

// VehicleTookDamage is delivered when the vehicle the NPC drives is damaged.
type VehicleTookDamage struct {
	Damager   *Player
	DamagerID int
	Vehicle   *Vehicle
	VehicleID int
	Weapon    samp.Weapon
	Position  samp.Vec3
}

// DestinationReached is delivered when a go-to command completes.
type DestinationReached struct{}

// HeightChanged is delivered when the NPC's ground height changes.
type HeightChanged struct {
	NewHeight float32
	OldHeight float32
}

// PlaybackFinished is delivered when a recorded playback ends.
type PlaybackFinished struct{}

// Damage describes one hit. Other is the damaging player for TookDamage and
// the damaged player for GaveDamage.
type Damage struct {
	Other    *Player
	OtherID  int
	Weapon   samp.Weapon
	BodyPart samp.BodyPart
	Amount   float32
}

// TookDamage is delivered when the NPC is hit.
type TookDamage struct{ Damage }

// GaveDamage is delivered when the NPC hits someone.
type GaveDamage struct{ Damage }

// WeaponShot is delivered for every shot the NPC fires. Setting
// PreventDamage suppresses the damage the shot would cause.
type WeaponShot struct {
	Weapon     samp.Weapon
	HitType    samp.BulletHitType
	HitID      int
	HitPlayer  *Player
	HitVehicle *Vehicle
	Position   samp.Vec3

	PreventDamage bool
}

// WeaponStateChanged is delivered when the held weapon changes state.
type WeaponStateChanged struct {
	WeaponState samp.WeaponState
}

// NodePointFinished is delivered when the NPC passes a node point.
type NodePointFinished struct {
	Point int
}

// NodeChanged is delivered when the NPC moves onto another node.
type NodeChanged struct {
	Node   *Node
	NodeID int
}

// NodeFinished is delivered when node playback ends.
type NodeFinished struct{}

// StreamedIn is delivered when the NPC streams in for a player.
type StreamedIn struct {
	Player   *Player
	PlayerID int
}

// StreamedOut is delivered when the NPC streams out for a player.
type StreamedOut struct {
	Player   *Player
	PlayerID int
}

// Update is delivered every plugin tick. Setting PreventPropagation stops
// the plugin from syncing the NPC for this tick.
type Update struct {
	PreventPropagation bool
}

// MovePathFinished is delivered when the NPC reaches the end of a move path.
type MovePathFinished struct {
	Path   *MovePath
	PathID int
}

// MovePathPointFinished is delivered when the NPC passes a move path point.
type MovePathPointFinished struct {
	Path   *MovePath
	PathID int
	Point  int
}

func (*Created) Kind() Kind               { return KindCreated }
func (*Destroyed) Kind() Kind             { return KindDestroyed }
func (*Spawned) Kind() Kind               { return KindSpawned }
func (*Respawned) Kind() Kind             { return KindRespawned }
func (*Died) Kind() Kind                  { return KindDied }
func (*VehicleEntryCompleted) Kind() Kind { return KindVehicleEntryCompleted }
func (*VehicleExitCompleted) Kind() Kind  { return KindVehicleExitCompleted }
func (*VehicleTookDamage) Kind() Kind     { return KindVehicleTookDamage }
func (*DestinationReached) Kind() Kind    { return KindDestinationReached }
func (*HeightChanged) Kind() Kind         { return KindHeightChanged }
func (*PlaybackFinished) Kind() Kind      { return KindPlaybackFinished }
func (*TookDamage) Kind() Kind            { return KindTookDamage }
func (*GaveDamage) Kind() Kind            { return KindGaveDamage }
func (*WeaponShot) Kind() Kind            { return KindWeaponShot }
func (*WeaponStateChanged) Kind() Kind    { return KindWeaponStateChanged }
func (*NodePointFinished) Kind() Kind     { return KindNodePointFinished }
func (*NodeChanged) Kind() Kind           { return KindNodeChanged }
func (*NodeFinished) Kind() Kind          { return KindNodeFinished }
func (*StreamedIn) Kind() Kind            { return KindStreamedIn }
func (*StreamedOut) Kind() Kind           { return KindStreamedOut }
func (*Update) Kind() Kind                { return KindUpdate }
func (*MovePathFinished) Kind() Kind      { return KindMovePathFinished }
func (*MovePathPointFinished) Kind() Kind { return KindMovePathPointFinished }

// Vetoed reports whether an observer suppressed the native default for n.
// Non-vetoable notifications are never vetoed.
func Vetoed(n Notification) bool {
	switch v := n.(type) {
	case *WeaponShot:
		return v.PreventDamage
	case *Update:
		return v.PreventPropagation
	default:
		return false
	}
}

// Veto suppresses the native default for a vetoable notification and reports
// whether n was vetoable.
func Veto(n Notification) bool {
	switch v := n.(type) {
	case *WeaponShot:
		v.PreventDamage = true
	case *Update:
		v.PreventPropagation = true
	default:
		return false
	}
	return true
}
