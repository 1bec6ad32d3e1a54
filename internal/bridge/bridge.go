// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package bridge connects the native NPC plugin to managed handles.
//
// A Bridge owns one identifier pool per entity kind and is the single entry
// point for native callbacks. It is not safe for concurrent use: the host
// calls it from its tick thread, and observers may call back into it
// re-entrantly.
package bridge

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/npcbridge/internal/native"
	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/pool"
	"github.com/holomush/npcbridge/internal/samp"
)

// APIVersion is the bridge API version scripts declare requirements against.
const APIVersion = "1.0.0"

// Stats counts router outcomes since the bridge was created.
type Stats struct {
	Dispatched uint64 `json:"dispatched"`
	Dropped    uint64 `json:"dropped"`
	Vetoed     uint64 `json:"vetoed"`
	Failed     uint64 `json:"failed"`
}

// Bridge routes native callbacks to NPC handles.
type Bridge struct {
	natives native.Natives
	logger  *slog.Logger
	strict  bool

	npcs     *pool.Pool[*npc.NPC]
	paths    *pool.Pool[*npc.MovePath]
	nodes    *pool.Pool[*npc.Node]
	players  *pool.Pool[*npc.Player]
	vehicles *pool.Pool[*npc.Vehicle]

	pendingName string
	onAcquire   []func(*npc.NPC)
	closed      bool
	closing     bool // inside Close: creation refused, destroys still route
	stats       Stats
}

// Option configures a Bridge.
type Option func(*config)

type config struct {
	strict     bool
	logger     *slog.Logger
	capacities map[string]int
	onAcquire  []func(*npc.NPC)
}

// WithStrictEnums makes enumerant arguments outside their closed set fail
// with UNKNOWN_ENUMERANT instead of passing through.
func WithStrictEnums(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCapacity overrides the identifier bound for one entity kind
// (npc.EntityNPC, npc.EntityPlayer, ...). Zero means unbounded.
func WithCapacity(entity string, capacity int) Option {
	return func(c *config) {
		c.capacities[entity] = capacity
	}
}

// WithAcquireHook runs fn after every NPC acquisition.
func WithAcquireHook(fn func(*npc.NPC)) Option {
	return func(c *config) {
		if fn != nil {
			c.onAcquire = append(c.onAcquire, fn)
		}
	}
}

// New creates a bridge over natives.
func New(natives native.Natives, opts ...Option) *Bridge {
	c := config{
		logger: slog.Default(),
		capacities: map[string]int{
			npc.EntityNPC:      samp.MaxPlayers,
			npc.EntityPlayer:   samp.MaxPlayers,
			npc.EntityVehicle:  samp.MaxVehicles,
			npc.EntityNode:     samp.MaxNodes,
			npc.EntityMovePath: 0,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}

	b := &Bridge{
		natives:   natives,
		logger:    c.logger,
		strict:    c.strict,
		onAcquire: c.onAcquire,
	}
	poolOpts := func(entity string) []pool.Option {
		return []pool.Option{pool.WithCapacity(c.capacities[entity]), pool.WithChangeHook(recordLive)}
	}

	b.players = pool.New(npc.EntityPlayer, npc.NewPlayer, poolOpts(npc.EntityPlayer)...)
	b.vehicles = pool.New(npc.EntityVehicle, npc.NewVehicle, poolOpts(npc.EntityVehicle)...)
	b.paths = pool.New(npc.EntityMovePath, func(int) *npc.MovePath {
		return npc.NewMovePath(natives, func(m *npc.MovePath) { b.paths.ReleaseHandle(m) })
	}, poolOpts(npc.EntityMovePath)...)
	b.nodes = pool.New(npc.EntityNode, func(int) *npc.Node {
		return npc.NewNode(natives, func(n *npc.Node) { b.nodes.ReleaseHandle(n) })
	}, poolOpts(npc.EntityNode)...)
	b.npcs = pool.New(npc.EntityNPC, func(int) *npc.NPC {
		return npc.New(b.pendingName, npc.Deps{
			Natives: natives,
			Release: func(n *npc.NPC) { b.npcs.ReleaseHandle(n) },
			Players: b.players.Lookup,
		})
	}, poolOpts(npc.EntityNPC)...)

	return b
}

// OnNPCAcquired registers fn to run after every NPC acquisition.
func (b *Bridge) OnNPCAcquired(fn func(*npc.NPC)) {
	if fn != nil {
		b.onAcquire = append(b.onAcquire, fn)
	}
}

// CreateNPC creates an NPC natively and returns its handle. The plugin's
// create callback fires before the identifier is known and is dropped.
func (b *Bridge) CreateNPC(name string) (*npc.NPC, error) {
	if b.closed || b.closing {
		return nil, ErrBridgeClosed("create_npc")
	}
	id := b.natives.Create(name)
	if id < 0 || id == samp.InvalidID {
		return nil, oops.In("bridge").
			Code(npc.CodeNativeFailure).
			With("name", name).
			Errorf("native create of NPC %q failed", name)
	}

	b.pendingName = name
	h, err := b.npcs.Acquire(id)
	b.pendingName = ""
	if err != nil {
		return nil, oops.In("bridge").With("name", name).Wrap(err)
	}

	b.logger.Debug("npc acquired", "id", id, "name", name)
	for _, fn := range b.onAcquire {
		fn(h)
	}
	return h, nil
}

// CreateMovePath creates a move path natively and returns its handle.
func (b *Bridge) CreateMovePath() (*npc.MovePath, error) {
	if b.closed || b.closing {
		return nil, ErrBridgeClosed("create_move_path")
	}
	id := b.natives.CreateMovePath()
	if id < 0 {
		return nil, npc.ErrNativeFailure(npc.EntityMovePath, id, "create")
	}
	m, err := b.paths.Acquire(id)
	if err != nil {
		return nil, oops.In("bridge").Wrap(err)
	}
	return m, nil
}

// OpenNode opens node id natively and returns its handle.
func (b *Bridge) OpenNode(id int) (*npc.Node, error) {
	if b.closed || b.closing {
		return nil, ErrBridgeClosed("open_node")
	}
	if _, ok := b.nodes.Lookup(id); ok {
		return nil, pool.ErrDuplicateIdentifier(npc.EntityNode, id)
	}
	if !b.natives.OpenNode(id) {
		return nil, npc.ErrNativeFailure(npc.EntityNode, id, "open")
	}
	n, err := b.nodes.Acquire(id)
	if err != nil {
		b.natives.CloseNode(id)
		return nil, oops.In("bridge").Wrap(err)
	}
	return n, nil
}

// ConnectPlayer registers a player the host saw connect.
func (b *Bridge) ConnectPlayer(id int) (*npc.Player, error) {
	if b.closed || b.closing {
		return nil, ErrBridgeClosed("connect_player")
	}
	return b.players.Acquire(id)
}

// DisconnectPlayer releases a player handle. Unknown ids are ignored.
func (b *Bridge) DisconnectPlayer(id int) {
	b.players.Release(id)
}

// AddVehicle registers a vehicle the host created.
func (b *Bridge) AddVehicle(id int) (*npc.Vehicle, error) {
	if b.closed || b.closing {
		return nil, ErrBridgeClosed("add_vehicle")
	}
	return b.vehicles.Acquire(id)
}

// RemoveVehicle releases a vehicle handle. Unknown ids are ignored.
func (b *Bridge) RemoveVehicle(id int) {
	b.vehicles.Release(id)
}

// NPC returns the live NPC handle for id.
func (b *Bridge) NPC(id int) (*npc.NPC, bool) { return b.npcs.Lookup(id) }

// MovePath returns the live move path handle for id.
func (b *Bridge) MovePath(id int) (*npc.MovePath, bool) { return b.paths.Lookup(id) }

// Node returns the live node handle for id.
func (b *Bridge) Node(id int) (*npc.Node, bool) { return b.nodes.Lookup(id) }

// Player returns the live player handle for id.
func (b *Bridge) Player(id int) (*npc.Player, bool) { return b.players.Lookup(id) }

// Vehicle returns the live vehicle handle for id.
func (b *Bridge) Vehicle(id int) (*npc.Vehicle, bool) { return b.vehicles.Lookup(id) }

// NPCs returns the live NPC handles ordered by identifier.
func (b *Bridge) NPCs() []*npc.NPC { return b.npcs.Handles() }

// Stats returns the router counters.
func (b *Bridge) Stats() Stats { return b.stats }

// Closed reports whether Close has been called.
func (b *Bridge) Closed() bool { return b.closed }

// Close disposes every NPC and move path natively, closes open nodes and
// releases host-registered handles. Destroy callbacks fired while disposing
// are still routed, but anything they try to create fails with
// BRIDGE_CLOSED. Close is idempotent.
func (b *Bridge) Close() error {
	if b.closed || b.closing {
		return nil
	}
	b.closing = true
	var errs []error
	b.npcs.Each(func(n *npc.NPC) {
		if err := n.Dispose(); err != nil {
			errs = append(errs, err)
		}
	})
	b.paths.Each(func(m *npc.MovePath) {
		if err := m.Dispose(); err != nil {
			errs = append(errs, err)
		}
	})
	b.nodes.Each(func(n *npc.Node) {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	b.players.Close()
	b.vehicles.Close()
	b.closing, b.closed = false, true
	b.logger.Debug("bridge closed", "dispatched", b.stats.Dispatched, "dropped", b.stats.Dropped)

	if len(errs) > 0 {
		return oops.In("bridge").Join(errs...)
	}
	return nil
}
