// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import "github.com/samber/oops"

// Kind identifies a notification category.
type Kind uint8

// Notification kinds, one per native callback.
const (
	KindCreated Kind = iota + 1
	KindDestroyed
	KindSpawned
	KindRespawned
	KindDied
	KindVehicleEntryCompleted
	KindVehicleExitCompleted
	KindVehicleTookDamage
	KindDestinationReached
	KindHeightChanged
	KindPlaybackFinished
	KindTookDamage
	KindGaveDamage
	KindWeaponShot
	KindWeaponStateChanged
	KindNodePointFinished
	KindNodeChanged
	KindNodeFinished
	KindStreamedIn
	KindStreamedOut
	KindUpdate
	KindMovePathFinished
	KindMovePathPointFinished

	kindCount = iota
)

// CodeUnknownKind is returned when parsing an unrecognized kind name.
const CodeUnknownKind = "UNKNOWN_KIND"

type kindInfo struct {
	name     string
	callback string
	veto     bool
}

var kinds = [kindCount + 1]kindInfo{
	KindCreated:               {name: "lifecycle.created", callback: "FCNPC_OnCreate"},
	KindDestroyed:             {name: "lifecycle.destroyed", callback: "FCNPC_OnDestroy"},
	KindSpawned:               {name: "lifecycle.spawned", callback: "FCNPC_OnSpawn"},
	KindRespawned:             {name: "lifecycle.respawned", callback: "FCNPC_OnRespawn"},
	KindDied:                  {name: "lifecycle.died", callback: "FCNPC_OnDeath"},
	KindVehicleEntryCompleted: {name: "vehicle.entry_completed", callback: "FCNPC_OnVehicleEntryComplete"},
	KindVehicleExitCompleted:  {name: "vehicle.exit_completed", callback: "FCNPC_OnVehicleExitComplete"},
	KindVehicleTookDamage:     {name: "vehicle.took_damage", callback: "FCNPC_OnVehicleTakeDamage"},
	KindDestinationReached:    {name: "movement.destination_reached", callback: "FCNPC_OnReachDestination"},
	KindHeightChanged:         {name: "movement.height_changed", callback: "FCNPC_OnChangeHeightPos"},
	KindPlaybackFinished:      {name: "playback.finished", callback: "FCNPC_OnFinishPlayback"},
	KindTookDamage:            {name: "combat.took_damage", callback: "FCNPC_OnTakeDamage"},
	KindGaveDamage:            {name: "combat.gave_damage", callback: "FCNPC_OnGiveDamage"},
	KindWeaponShot:            {name: "combat.weapon_shot", callback: "FCNPC_OnWeaponShot", veto: true},
	KindWeaponStateChanged:    {name: "combat.weapon_state_changed", callback: "FCNPC_OnWeaponStateChange"},
	KindNodePointFinished:     {name: "node.point_finished", callback: "FCNPC_OnFinishNodePoint"},
	KindNodeChanged:           {name: "node.changed", callback: "FCNPC_OnChangeNode"},
	KindNodeFinished:          {name: "node.finished", callback: "FCNPC_OnFinishNode"},
	KindStreamedIn:            {name: "stream.in", callback: "FCNPC_OnStreamIn"},
	KindStreamedOut:           {name: "stream.out", callback: "FCNPC_OnStreamOut"},
	KindUpdate:                {name: "tick.update", callback: "FCNPC_OnUpdate", veto: true},
	KindMovePathFinished:      {name: "movepath.finished", callback: "FCNPC_OnFinishMovePath"},
	KindMovePathPointFinished: {name: "movepath.point_finished", callback: "FCNPC_OnFinishMovePathPoint"},
}

var (
	kindsByName     = make(map[string]Kind, kindCount)
	kindsByCallback = make(map[string]Kind, kindCount)
)

func init() {
	for k := KindCreated; k <= KindMovePathPointFinished; k++ {
		kindsByName[kinds[k].name] = k
		kindsByCallback[kinds[k].callback] = k
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= KindCreated && k <= KindMovePathPointFinished }

// String returns the dotted kind name, e.g. "combat.weapon_shot".
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].name
}

// Callback returns the native callback name that produces k.
func (k Kind) Callback() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].callback
}

// Vetoable reports whether observers can suppress the native default for k.
func (k Kind) Vetoable() bool {
	return k.Valid() && kinds[k].veto
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindCreated; k <= KindMovePathPointFinished; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a dotted kind name.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	return 0, oops.In("npc").Code(CodeUnknownKind).With("kind", name).Errorf("unknown notification kind %q", name)
}

// KindForCallback resolves a native callback name such as "FCNPC_OnDeath".
func KindForCallback(callback string) (Kind, bool) {
	k, ok := kindsByCallback[callback]
	return k, ok
}
