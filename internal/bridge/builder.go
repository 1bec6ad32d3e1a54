// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bridge

import (
	"fmt"
	"math"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/samp"
)

// args reads the raw callback arguments that follow the NPC id. The first
// conversion failure sticks; later reads return zero values.
type args struct {
	b    *Bridge
	kind npc.Kind
	raw  []any
	err  error
}

func (a *args) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *args) int(i int, name string) int {
	if a.err != nil {
		return 0
	}
	var (
		v  int64
		ok bool
	)
	switch raw := a.raw[i].(type) {
	case int:
		v, ok = int64(raw), true
	case int32:
		v, ok = int64(raw), true
	case int64:
		v, ok = raw, true
	case float32:
		v, ok = wholeNumber(float64(raw))
	case float64:
		v, ok = wholeNumber(raw)
	}
	if ok && v >= math.MinInt32 && v <= math.MaxInt32 {
		return int(v)
	}
	a.fail(ErrBadArguments(a.kind, fmt.Sprintf("%s: want 32-bit integer, got %T(%v)", name, a.raw[i], a.raw[i])))
	return 0
}

// wholeNumber converts f when it is finite, integral and within int32 range.
func wholeNumber(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}

func (a *args) float(i int, name string) float32 {
	if a.err != nil {
		return 0
	}
	switch v := a.raw[i].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	}
	a.fail(ErrBadArguments(a.kind, fmt.Sprintf("%s: want number, got %T(%v)", name, a.raw[i], a.raw[i])))
	return 0
}

func (a *args) vec3(i int) samp.Vec3 {
	return samp.Vec3{X: a.float(i, "x"), Y: a.float(i+1, "y"), Z: a.float(i+2, "z")}
}

// enum converts an enumerant argument. In strict mode values outside the
// closed set fail; otherwise the raw value passes through.
func (a *args) enum(i int, name string, valid func(int) bool) int {
	v := a.int(i, name)
	if a.err == nil && a.b.strict && !valid(v) {
		a.fail(ErrUnknownEnumerant(a.kind, name, v))
	}
	return v
}

func (a *args) weapon(i int) samp.Weapon {
	return samp.Weapon(a.enum(i, "weapon", func(v int) bool { return samp.Weapon(v).Valid() }))
}

func (a *args) bodyPart(i int) samp.BodyPart {
	return samp.BodyPart(a.enum(i, "body_part", func(v int) bool { return samp.BodyPart(v).Valid() }))
}

func (a *args) hitType(i int) samp.BulletHitType {
	return samp.BulletHitType(a.enum(i, "hit_type", func(v int) bool { return samp.BulletHitType(v).Valid() }))
}

func (a *args) weaponState(i int) samp.WeaponState {
	return samp.WeaponState(a.enum(i, "weapon_state", func(v int) bool { return samp.WeaponState(v).Valid() }))
}

func (a *args) player(id int) *npc.Player {
	p, _ := a.b.players.Lookup(id)
	return p
}

func (a *args) vehicle(id int) *npc.Vehicle {
	v, _ := a.b.vehicles.Lookup(id)
	return v
}

func (a *args) path(id int) *npc.MovePath {
	m, _ := a.b.paths.Lookup(id)
	return m
}

func (a *args) node(id int) *npc.Node {
	n, _ := a.b.nodes.Lookup(id)
	return n
}

type builder struct {
	arity int
	build func(a *args) npc.Notification
}

func empty[N any, P interface {
	*N
	npc.Notification
}]() builder {
	return builder{build: func(*args) npc.Notification { return P(new(N)) }}
}

func damage(a *args) npc.Damage {
	other := a.int(0, "player")
	return npc.Damage{
		Other:    a.player(other),
		OtherID:  other,
		Weapon:   a.weapon(1),
		BodyPart: a.bodyPart(2),
		Amount:   a.float(3, "amount"),
	}
}

var builders = map[npc.Kind]builder{
	npc.KindCreated:              empty[npc.Created](),
	npc.KindDestroyed:            empty[npc.Destroyed](),
	npc.KindSpawned:              empty[npc.Spawned](),
	npc.KindRespawned:            empty[npc.Respawned](),
	npc.KindVehicleExitCompleted: empty[npc.VehicleExitCompleted](),
	npc.KindDestinationReached:   empty[npc.DestinationReached](),
	npc.KindPlaybackFinished:     empty[npc.PlaybackFinished](),
	npc.KindNodeFinished:         empty[npc.NodeFinished](),
	npc.KindUpdate:               empty[npc.Update](),

	npc.KindDied: {arity: 2, build: func(a *args) npc.Notification {
		killer := a.int(0, "killer")
		return &npc.Died{Killer: a.player(killer), KillerID: killer, Weapon: a.weapon(1)}
	}},
	npc.KindVehicleEntryCompleted: {arity: 2, build: func(a *args) npc.Notification {
		vehicle := a.int(0, "vehicle")
		return &npc.VehicleEntryCompleted{Vehicle: a.vehicle(vehicle), VehicleID: vehicle, Seat: a.int(1, "seat")}
	}},
	npc.KindVehicleTookDamage: {arity: 6, build: func(a *args) npc.Notification {
		damager, vehicle := a.int(0, "damager"), a.int(1, "vehicle")
		return &npc.VehicleTookDamage{
			Damager:   a.player(damager),
			DamagerID: damager,
			Vehicle:   a.vehicle(vehicle),
			VehicleID: vehicle,
			Weapon:    a.weapon(2),
			Position:  a.vec3(3),
		}
	}},
	npc.KindHeightChanged: {arity: 2, build: func(a *args) npc.Notification {
		return &npc.HeightChanged{NewHeight: a.float(0, "new_z"), OldHeight: a.float(1, "old_z")}
	}},
	npc.KindTookDamage: {arity: 4, build: func(a *args) npc.Notification {
		return &npc.TookDamage{Damage: damage(a)}
	}},
	npc.KindGaveDamage: {arity: 4, build: func(a *args) npc.Notification {
		return &npc.GaveDamage{Damage: damage(a)}
	}},
	npc.KindWeaponShot: {arity: 6, build: func(a *args) npc.Notification {
		shot := &npc.WeaponShot{
			Weapon:   a.weapon(0),
			HitType:  a.hitType(1),
			HitID:    a.int(2, "hit_id"),
			Position: a.vec3(3),
		}
		switch shot.HitType {
		case samp.BulletHitPlayer:
			shot.HitPlayer = a.player(shot.HitID)
		case samp.BulletHitVehicle:
			shot.HitVehicle = a.vehicle(shot.HitID)
		}
		return shot
	}},
	npc.KindWeaponStateChanged: {arity: 1, build: func(a *args) npc.Notification {
		return &npc.WeaponStateChanged{WeaponState: a.weaponState(0)}
	}},
	npc.KindNodePointFinished: {arity: 1, build: func(a *args) npc.Notification {
		return &npc.NodePointFinished{Point: a.int(0, "point")}
	}},
	npc.KindNodeChanged: {arity: 1, build: func(a *args) npc.Notification {
		node := a.int(0, "node")
		return &npc.NodeChanged{Node: a.node(node), NodeID: node}
	}},
	npc.KindStreamedIn: {arity: 1, build: func(a *args) npc.Notification {
		player := a.int(0, "player")
		return &npc.StreamedIn{Player: a.player(player), PlayerID: player}
	}},
	npc.KindStreamedOut: {arity: 1, build: func(a *args) npc.Notification {
		player := a.int(0, "player")
		return &npc.StreamedOut{Player: a.player(player), PlayerID: player}
	}},
	npc.KindMovePathFinished: {arity: 1, build: func(a *args) npc.Notification {
		path := a.int(0, "path")
		return &npc.MovePathFinished{Path: a.path(path), PathID: path}
	}},
	npc.KindMovePathPointFinished: {arity: 2, build: func(a *args) npc.Notification {
		path := a.int(0, "path")
		return &npc.MovePathPointFinished{Path: a.path(path), PathID: path, Point: a.int(1, "point")}
	}},
}

// build converts raw callback arguments into the notification for kind.
func (b *Bridge) build(kind npc.Kind, raw []any) (npc.Notification, error) {
	entry, ok := builders[kind]
	if !ok {
		return nil, ErrBadArguments(kind, "no builder for kind")
	}
	if len(raw) != entry.arity {
		return nil, ErrBadArguments(kind, fmt.Sprintf("want %d arguments, got %d", entry.arity, len(raw)))
	}
	a := &args{b: b, kind: kind, raw: raw}
	n := entry.build(a)
	if a.err != nil {
		return nil, a.err
	}
	return n, nil
}
