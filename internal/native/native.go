// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package native declares the function-call surface of the NPC plugin.
//
// Implementations are thin marshaling shims over the plugin's exported
// natives. Calls may re-enter the bridge synchronously: destroying an NPC, for
// example, fires its destroy callback before Destroy returns.
package native

import "github.com/holomush/npcbridge/internal/samp"

// NPCNatives are the per-NPC plugin functions.
type NPCNatives interface {
	Create(name string) int
	Destroy(id int) bool
	IsValid(id int) bool

	Spawn(id, skin int, pos samp.Vec3) bool
	Respawn(id int) bool
	Kill(id int) bool
	IsSpawned(id int) bool
	IsDead(id int) bool

	Position(id int) samp.Vec3
	SetPosition(id int, pos samp.Vec3) bool
	Health(id int) float32
	SetHealth(id int, health float32) bool
	Armour(id int) float32
	SetArmour(id int, armour float32) bool
	Weapon(id int) int
	SetWeapon(id, weapon int) bool
	Ammo(id int) int
	SetAmmo(id, ammo int) bool

	GoTo(id int, pos samp.Vec3, moveType int, speed float32) bool
	GoToPlayer(id, playerID, moveType int, speed float32) bool
	Stop(id int) bool
	IsMoving(id int) bool
	AimAt(id int, pos samp.Vec3, shoot bool, shootDelay int) bool
	AimAtPlayer(id, playerID int, shoot bool, shootDelay int) bool
	StopAim(id int) bool

	EnterVehicle(id, vehicleID, seat, moveType int) bool
	ExitVehicle(id int) bool

	PlayNode(id, nodeID, moveType int, speed float32) bool
	StopPlayingNode(id int) bool
	GoByMovePath(id, pathID, moveType int, speed float32) bool
}

// MovePathNatives manage plugin move paths.
type MovePathNatives interface {
	CreateMovePath() int
	DestroyMovePath(pathID int) bool
	IsValidMovePath(pathID int) bool
	AddPointToPath(pathID int, pos samp.Vec3) bool
	AddPointsToPath(pathID int, pos []samp.Vec3) bool
	IsValidMovePoint(pathID, point int) bool
	RemovePointFromPath(pathID, point int) bool
	MovePoint(pathID, point int) (samp.Vec3, bool)
	MovePointCount(pathID int) int
}

// NodeNatives manage plugin node files.
type NodeNatives interface {
	OpenNode(nodeID int) bool
	CloseNode(nodeID int) bool
	IsNodeOpen(nodeID int) bool
	NodeType(nodeID int) int
	NodePointCount(nodeID int) int
	SetNodePoint(nodeID, point int) bool
	NodePointPosition(nodeID int) (samp.Vec3, bool)
	NodeInfo(nodeID int) (vehicle, ped, navi int, ok bool)
}

// Natives is the complete plugin surface the bridge depends on.
type Natives interface {
	NPCNatives
	MovePathNatives
	NodeNatives
}
