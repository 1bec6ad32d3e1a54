// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bridge_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/npcbridge/internal/bridge"
	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/pool"
	"github.com/holomush/npcbridge/internal/samp"
	"github.com/holomush/npcbridge/pkg/errutil"
)

func TestRouter_DiedObserverReleasesHandle(t *testing.T) {
	tests := []struct {
		name       string
		killerLive bool
	}{
		{"killer live", true},
		{"killer absent", false},
	}
	for _, tt := range tests {
		killerLive := tt.killerLive
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBridge(t)
			bot := createN(t, b, 5)
			require.Equal(t, 4, bot.ID())

			var killer *npc.Player
			if killerLive {
				var err error
				killer, err = b.ConnectPlayer(7)
				require.NoError(t, err)
			}

			var flag bool
			var got *npc.Died
			npc.Observe(bot, func(d *npc.Died) {
				require.NoError(t, bot.Dispose())
				flag = true
				got = d
			})

			propagate, err := b.OnNativeEvent(npc.KindDied, 4, 7, 2)
			require.NoError(t, err)
			assert.True(t, propagate)
			assert.True(t, flag)

			_, ok := b.NPC(4)
			assert.False(t, ok)
			assert.Equal(t, pool.Disposed, bot.State())

			require.NotNil(t, got)
			assert.Equal(t, 7, got.KillerID)
			assert.Equal(t, samp.WeaponGolfClub, got.Weapon)
			if killerLive {
				assert.Same(t, killer, got.Killer)
			} else {
				assert.Nil(t, got.Killer)
			}
		})
	}
}

func TestRouter_SnapshotDispatch(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)

	var calls []int
	bot.Register(npc.KindSpawned, func(npc.Notification) { calls = append(calls, 1) })
	var second npc.Subscription
	second = bot.Register(npc.KindSpawned, func(npc.Notification) {
		calls = append(calls, 2)
		bot.Unregister(second)
	})
	bot.Register(npc.KindSpawned, func(npc.Notification) { calls = append(calls, 3) })

	_, err := b.OnCallback("FCNPC_OnSpawn", bot.ID())
	require.NoError(t, err)
	_, err = b.OnCallback("FCNPC_OnSpawn", bot.ID())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 1, 3}, calls)
}

func TestRouter_DropsUnknownIdentifiers(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)
	id := bot.ID()
	calls := 0
	bot.Register(npc.KindUpdate, func(npc.Notification) { calls++ })

	before := testutil.ToFloat64(bridge.NotificationsTotal.WithLabelValues("tick.update", bridge.OutcomeDropped))
	dropped := b.Stats().Dropped

	propagate, err := b.OnNativeEvent(npc.KindUpdate, 42)
	require.NoError(t, err)
	assert.True(t, propagate)

	require.NoError(t, bot.Dispose())
	propagate, err = b.OnNativeEvent(npc.KindUpdate, id)
	require.NoError(t, err)
	assert.True(t, propagate)

	assert.Equal(t, 0, calls)
	assert.Equal(t, dropped+2, b.Stats().Dropped)
	after := testutil.ToFloat64(bridge.NotificationsTotal.WithLabelValues("tick.update", bridge.OutcomeDropped))
	assert.InDelta(t, 2, after-before, 0.001)
}

func TestRouter_WeaponShotVeto(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)

	propagate, err := b.OnNativeEvent(npc.KindWeaponShot, bot.ID(), 24, 1, 7, 1.0, 2.0, 3.0)
	require.NoError(t, err)
	assert.True(t, propagate, "no observer leaves damage on")

	var shot *npc.WeaponShot
	npc.Observe(bot, func(s *npc.WeaponShot) {
		shot = s
		s.PreventDamage = true
	})
	propagate, err = b.OnNativeEvent(npc.KindWeaponShot, bot.ID(), 24, 1, 7, 1.0, 2.0, 3.0)
	require.NoError(t, err)
	assert.False(t, propagate)
	assert.Equal(t, uint64(1), b.Stats().Vetoed)

	require.NotNil(t, shot)
	assert.Equal(t, samp.WeaponDeagle, shot.Weapon)
	assert.Equal(t, samp.BulletHitPlayer, shot.HitType)
	assert.Nil(t, shot.HitPlayer)
	assert.Equal(t, samp.Vec3{X: 1, Y: 2, Z: 3}, shot.Position)
}

func TestRouter_UpdateVeto(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)
	npc.Observe(bot, func(u *npc.Update) { npc.Veto(u) })

	propagate, err := b.OnCallback("FCNPC_OnUpdate", bot.ID())
	require.NoError(t, err)
	assert.False(t, propagate)
}

func TestRouter_SecondaryReferences(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)
	car, err := b.AddVehicle(11)
	require.NoError(t, err)
	path, err := b.CreateMovePath()
	require.NoError(t, err)
	node, err := b.OpenNode(2)
	require.NoError(t, err)
	player, err := b.ConnectPlayer(3)
	require.NoError(t, err)

	var got []npc.Notification
	for _, k := range npc.Kinds() {
		bot.Register(k, func(n npc.Notification) { got = append(got, n) })
	}

	events := []struct {
		callback string
		args     []any
	}{
		{"FCNPC_OnVehicleEntryComplete", []any{11, 0}},
		{"FCNPC_OnVehicleTakeDamage", []any{3, 11, 30, 1, 2, 3}},
		{"FCNPC_OnWeaponShot", []any{30, 2, 11, 0, 0, 0}},
		{"FCNPC_OnTakeDamage", []any{3, 30, 9, float32(12.5)}},
		{"FCNPC_OnGiveDamage", []any{99, 30, 3, 5}},
		{"FCNPC_OnChangeNode", []any{2}},
		{"FCNPC_OnStreamIn", []any{3}},
		{"FCNPC_OnFinishMovePathPoint", []any{path.ID(), 1}},
		{"FCNPC_OnFinishMovePath", []any{path.ID() + 1}},
	}
	for _, e := range events {
		_, err := b.OnCallback(e.callback, append([]any{bot.ID()}, e.args...)...)
		require.NoError(t, err, e.callback)
	}
	require.Len(t, got, len(events))

	entry := got[0].(*npc.VehicleEntryCompleted)
	assert.Same(t, car, entry.Vehicle)

	vdmg := got[1].(*npc.VehicleTookDamage)
	assert.Same(t, player, vdmg.Damager)
	assert.Same(t, car, vdmg.Vehicle)
	assert.Equal(t, samp.Vec3{X: 1, Y: 2, Z: 3}, vdmg.Position)

	shot := got[2].(*npc.WeaponShot)
	assert.Same(t, car, shot.HitVehicle)
	assert.Nil(t, shot.HitPlayer)

	took := got[3].(*npc.TookDamage)
	assert.Same(t, player, took.Other)
	assert.Equal(t, samp.BodyPartHead, took.BodyPart)
	assert.InDelta(t, 12.5, took.Amount, 0.001)

	gave := got[4].(*npc.GaveDamage)
	assert.Nil(t, gave.Other)
	assert.Equal(t, 99, gave.OtherID)

	assert.Same(t, node, got[5].(*npc.NodeChanged).Node)
	assert.Same(t, player, got[6].(*npc.StreamedIn).Player)

	point := got[7].(*npc.MovePathPointFinished)
	assert.Same(t, path, point.Path)
	assert.Equal(t, 1, point.Point)

	finished := got[8].(*npc.MovePathFinished)
	assert.Nil(t, finished.Path)
	assert.Equal(t, path.ID()+1, finished.PathID)
}

func TestRouter_DestroyedReleasesHandle(t *testing.T) {
	b, plugin := newBridge(t)
	bot := createN(t, b, 1)

	destroyed := false
	npc.Observe(bot, func(*npc.Destroyed) {
		destroyed = true
		assert.Equal(t, pool.Live, bot.State(), "observers see a live handle")
	})

	require.True(t, plugin.Destroy(bot.ID()))
	assert.True(t, destroyed)
	assert.Equal(t, pool.Disposed, bot.State())
	assert.Empty(t, b.NPCs())
}

func TestRouter_BadArguments(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)

	tests := []struct {
		name     string
		callback string
		args     []any
		code     string
	}{
		{"arity", "FCNPC_OnDeath", []any{bot.ID(), 1}, bridge.CodeBadArguments},
		{"fractional id", "FCNPC_OnDeath", []any{bot.ID(), 1.5, 2}, bridge.CodeBadArguments},
		{"huge float id", "FCNPC_OnDeath", []any{bot.ID(), 1e300, 2}, bridge.CodeBadArguments},
		{"nan id", "FCNPC_OnDeath", []any{bot.ID(), math.NaN(), 2}, bridge.CodeBadArguments},
		{"int64 past int32", "FCNPC_OnDeath", []any{bot.ID(), int64(math.MaxInt32) + 1, 2}, bridge.CodeBadArguments},
		{"infinite npc id", "FCNPC_OnSpawn", []any{math.Inf(1)}, bridge.CodeBadArguments},
		{"negative infinite npc id", "FCNPC_OnSpawn", []any{float32(math.Inf(-1))}, bridge.CodeBadArguments},
		{"string arg", "FCNPC_OnChangeHeightPos", []any{bot.ID(), "high", 1}, bridge.CodeBadArguments},
		{"missing npc", "FCNPC_OnSpawn", nil, bridge.CodeBadArguments},
		{"unknown callback", "FCNPC_OnExplode", []any{bot.ID()}, bridge.CodeUnknownCallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.OnCallback(tt.callback, tt.args...)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}

	_, err := b.OnNativeEvent(npc.Kind(0), bot.ID())
	errutil.AssertErrorCode(t, err, bridge.CodeBadArguments)
}

func TestRouter_NumericCoercion(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)

	var got *npc.HeightChanged
	npc.Observe(bot, func(h *npc.HeightChanged) { got = h })

	_, err := b.OnNativeEvent(npc.KindHeightChanged, bot.ID(), int32(4), int64(2))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 4, got.NewHeight, 0.001)
	assert.InDelta(t, 2, got.OldHeight, 0.001)

	var died *npc.Died
	npc.Observe(bot, func(d *npc.Died) { died = d })
	_, err = b.OnNativeEvent(npc.KindDied, bot.ID(), float64(7), float32(2))
	require.NoError(t, err)
	require.NotNil(t, died)
	assert.Equal(t, 7, died.KillerID)

	_, err = b.OnNativeEvent(npc.KindDied, bot.ID(), float64(math.MinInt32), 2)
	require.NoError(t, err)
	assert.Equal(t, math.MinInt32, died.KillerID)
}

func TestRouter_StrictEnums(t *testing.T) {
	lenient, _ := newBridge(t)
	bot := createN(t, lenient, 1)
	var got *npc.Died
	npc.Observe(bot, func(d *npc.Died) { got = d })

	_, err := lenient.OnNativeEvent(npc.KindDied, bot.ID(), samp.InvalidID, 255)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, samp.Weapon(255), got.Weapon, "raw value passes through")

	strict, _ := newBridge(t, bridge.WithStrictEnums(true))
	bot = createN(t, strict, 1)
	calls := 0
	bot.Register(npc.KindDied, func(npc.Notification) { calls++ })

	_, err = strict.OnNativeEvent(npc.KindDied, bot.ID(), samp.InvalidID, 255)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, bridge.CodeUnknownEnumerant)
	errutil.AssertErrorContext(t, err, "value", 255)
	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(1), strict.Stats().Failed)

	_, err = strict.OnNativeEvent(npc.KindWeaponStateChanged, bot.ID(), -1)
	require.NoError(t, err)
}

func TestRouter_ClosedBridgeDrops(t *testing.T) {
	b, _ := newBridge(t)
	bot := createN(t, b, 1)
	id := bot.ID()
	require.NoError(t, b.Close())

	dropped := b.Stats().Dropped
	propagate, err := b.OnNativeEvent(npc.KindUpdate, id)
	require.NoError(t, err)
	assert.True(t, propagate)
	assert.Equal(t, dropped+1, b.Stats().Dropped)
}

func TestRouter_SinkLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	b, _ := newBridge(t, bridge.WithLogger(logger))

	sink := b.Sink()
	assert.True(t, sink("FCNPC_OnExplode", 0))
	assert.Contains(t, buf.String(), bridge.CodeUnknownCallback)
}

func TestRouter_EveryKindBuilds(t *testing.T) {
	arity := map[npc.Kind]int{
		npc.KindDied: 2, npc.KindVehicleEntryCompleted: 2, npc.KindVehicleTookDamage: 6,
		npc.KindHeightChanged: 2, npc.KindTookDamage: 4, npc.KindGaveDamage: 4,
		npc.KindWeaponShot: 6, npc.KindWeaponStateChanged: 1, npc.KindNodePointFinished: 1,
		npc.KindNodeChanged: 1, npc.KindStreamedIn: 1, npc.KindStreamedOut: 1,
		npc.KindMovePathFinished: 1, npc.KindMovePathPointFinished: 2,
	}

	for _, k := range npc.Kinds() {
		if k == npc.KindDestroyed {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			b, _ := newBridge(t)
			bot := createN(t, b, 1)
			var got npc.Notification
			bot.Register(k, func(n npc.Notification) { got = n })

			raw := make([]any, arity[k])
			for i := range raw {
				raw[i] = 1
			}
			_, err := b.OnNativeEvent(k, bot.ID(), raw...)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, k, got.Kind())
		})
	}
}
