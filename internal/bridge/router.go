// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bridge

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/pkg/errutil"
)

// OnNativeEvent routes one native event for npcID to the NPC's observers.
//
// Events for identifiers without a live handle are dropped and counted; that
// is not an error. For vetoable kinds the result reports whether the native
// default should proceed. A destroyed event releases the handle after its
// observers have run.
func (b *Bridge) OnNativeEvent(kind npc.Kind, npcID int, raw ...any) (bool, error) {
	if !kind.Valid() {
		return true, ErrBadArguments(kind, fmt.Sprintf("invalid kind %d", uint8(kind)))
	}
	if b.closed {
		b.drop(kind, npcID, "bridge closed")
		return true, nil
	}

	h, ok := b.npcs.Lookup(npcID)
	if !ok {
		b.drop(kind, npcID, "no live handle")
		return true, nil
	}

	n, err := b.build(kind, raw)
	if err != nil {
		b.stats.Failed++
		recordNotification(kind.String(), OutcomeFailed)
		return true, oops.In("bridge").With("npc", npcID).Wrap(err)
	}

	h.Dispatch(n)
	b.stats.Dispatched++
	recordNotification(kind.String(), OutcomeDispatched)

	propagate := !npc.Vetoed(n)
	if !propagate {
		b.stats.Vetoed++
		recordNotification(kind.String(), OutcomeVetoed)
	}

	if kind == npc.KindDestroyed && b.npcs.ReleaseHandle(h) {
		b.logger.Debug("npc released on destroy", "id", npcID)
	}
	return propagate, nil
}

// OnCallback routes a native callback by name, e.g. "FCNPC_OnDeath". The
// first argument is the NPC id.
func (b *Bridge) OnCallback(name string, raw ...any) (bool, error) {
	kind, ok := npc.KindForCallback(name)
	if !ok {
		return true, ErrUnknownCallback(name)
	}
	if len(raw) == 0 {
		return true, ErrBadArguments(kind, "missing npc id")
	}
	a := &args{b: b, kind: kind, raw: raw}
	id := a.int(0, "npc")
	if a.err != nil {
		return true, a.err
	}
	return b.OnNativeEvent(kind, id, raw[1:]...)
}

// Sink adapts OnCallback for native layers that cannot return errors.
// Failures are logged and the native default proceeds.
func (b *Bridge) Sink() func(callback string, raw ...any) bool {
	return func(callback string, raw ...any) bool {
		propagate, err := b.OnCallback(callback, raw...)
		if err != nil {
			errutil.LogError(b.logger, "native callback failed", err)
		}
		return propagate
	}
}

func (b *Bridge) drop(kind npc.Kind, npcID int, reason string) {
	b.stats.Dropped++
	recordNotification(kind.String(), OutcomeDropped)
	b.logger.Debug("native event dropped", "kind", kind.String(), "npc", npcID, "reason", reason)
}
