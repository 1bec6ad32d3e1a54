// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/samp"
)

// notificationTable builds the table passed to on_notification. Secondary
// entities appear twice: <name>_id always holds the raw id, <name> holds the
// id only when a live handle resolved.
func notificationTable(L *lua.LState, npcID int, n npc.Notification) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(n.Kind().String()))
	t.RawSetString("npc", lua.LNumber(npcID))

	switch v := n.(type) {
	case *npc.Died:
		setRef(t, "killer", v.KillerID, v.Killer != nil)
		setInt(t, "weapon", int(v.Weapon))
	case *npc.VehicleEntryCompleted:
		setRef(t, "vehicle", v.VehicleID, v.Vehicle != nil)
		setInt(t, "seat", v.Seat)
	case *npc.VehicleTookDamage:
		setRef(t, "damager", v.DamagerID, v.Damager != nil)
		setRef(t, "vehicle", v.VehicleID, v.Vehicle != nil)
		setInt(t, "weapon", int(v.Weapon))
		setVec3(L, t, "position", v.Position)
	case *npc.HeightChanged:
		t.RawSetString("new_height", lua.LNumber(v.NewHeight))
		t.RawSetString("old_height", lua.LNumber(v.OldHeight))
	case *npc.TookDamage:
		setDamage(t, "damager", v.Damage)
	case *npc.GaveDamage:
		setDamage(t, "damaged", v.Damage)
	case *npc.WeaponShot:
		setInt(t, "weapon", int(v.Weapon))
		t.RawSetString("hit_type", lua.LString(v.HitType.String()))
		setInt(t, "hit_id", v.HitID)
		if v.HitPlayer != nil || v.HitVehicle != nil {
			setInt(t, "hit", v.HitID)
		}
		setVec3(L, t, "position", v.Position)
		t.RawSetString("prevent", lua.LBool(v.PreventDamage))
	case *npc.WeaponStateChanged:
		t.RawSetString("weapon_state", lua.LString(v.WeaponState.String()))
	case *npc.NodePointFinished:
		setInt(t, "point", v.Point)
	case *npc.NodeChanged:
		setRef(t, "node", v.NodeID, v.Node != nil)
	case *npc.StreamedIn:
		setRef(t, "player", v.PlayerID, v.Player != nil)
	case *npc.StreamedOut:
		setRef(t, "player", v.PlayerID, v.Player != nil)
	case *npc.Update:
		t.RawSetString("prevent", lua.LBool(v.PreventPropagation))
	case *npc.MovePathFinished:
		setRef(t, "path", v.PathID, v.Path != nil)
	case *npc.MovePathPointFinished:
		setRef(t, "path", v.PathID, v.Path != nil)
		setInt(t, "point", v.Point)
	}
	return t
}

func setInt(t *lua.LTable, key string, v int) {
	t.RawSetString(key, lua.LNumber(v))
}

func setRef(t *lua.LTable, key string, id int, live bool) {
	setInt(t, key+"_id", id)
	if live {
		setInt(t, key, id)
	}
}

func setDamage(t *lua.LTable, other string, d npc.Damage) {
	setRef(t, other, d.OtherID, d.Other != nil)
	setInt(t, "weapon", int(d.Weapon))
	t.RawSetString("body_part", lua.LString(d.BodyPart.String()))
	t.RawSetString("amount", lua.LNumber(d.Amount))
}

func setVec3(L *lua.LState, t *lua.LTable, key string, v samp.Vec3) {
	pos := L.NewTable()
	pos.RawSetString("x", lua.LNumber(v.X))
	pos.RawSetString("y", lua.LNumber(v.Y))
	pos.RawSetString("z", lua.LNumber(v.Z))
	t.RawSetString(key, pos)
}
