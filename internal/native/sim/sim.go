// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package sim is an in-memory NPC plugin.
//
// It allocates identifiers the way the real plugin does (lowest free slot,
// reused immediately after destroy) and fires its callbacks synchronously
// through a Sink, so callers observe the same re-entrancy as on a live server:
// Destroy delivers FCNPC_OnDestroy before the slot is freed, Kill delivers
// FCNPC_OnDeath before returning, and so on.
//
// A Plugin is not safe for concurrent use.
package sim

import (
	"sort"

	"github.com/holomush/npcbridge/internal/native"
	"github.com/holomush/npcbridge/internal/samp"
)

// Compile-time interface check.
var _ native.Natives = (*Plugin)(nil)

// Sink receives every callback the plugin fires. The returned value is the
// callback's propagate result.
type Sink func(callback string, args ...any) bool

const (
	defaultHealth = 100
	// KillWeapon is reported as the death reason for Kill and lethal SetHealth.
	KillWeapon = samp.WeaponFist
)

type npcState struct {
	name     string
	spawned  bool
	dead     bool
	pos      samp.Vec3
	health   float32
	armour   float32
	weapon   int
	ammo     int
	moving   bool
	dest     samp.Vec3
	path     int
	node     int
	aiming   bool
	vehicle  int
	entering int
	seat     int
}

type nodeState struct {
	typ    int
	points int
	cursor int
}

// Plugin simulates the native NPC plugin.
type Plugin struct {
	maxNPCs  int
	npcs     map[int]*npcState
	paths    map[int][]samp.Vec3
	nextPath int
	freePath []int
	nodes    map[int]*nodeState
	files    map[int]nodeState
	sink     Sink
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithMaxNPCs bounds NPC identifiers to [0, n).
func WithMaxNPCs(n int) Option {
	return func(p *Plugin) {
		p.maxNPCs = n
	}
}

// WithNodeFile makes node id openable with the given type and point count.
// Without it, every node id in range opens as an empty pedestrian node.
func WithNodeFile(id int, typ samp.NodeType, points int) Option {
	return func(p *Plugin) {
		p.files[id] = nodeState{typ: int(typ), points: points}
	}
}

// New creates an empty plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		maxNPCs: samp.MaxPlayers,
		npcs:    make(map[int]*npcState),
		paths:   make(map[int][]samp.Vec3),
		nodes:   make(map[int]*nodeState),
		files:   make(map[int]nodeState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSink routes fired callbacks to s. A nil sink discards them.
func (p *Plugin) SetSink(s Sink) { p.sink = s }

// Fire delivers an arbitrary callback to the sink, as if the plugin had raised
// it. It returns true when no sink is attached.
func (p *Plugin) Fire(callback string, args ...any) bool {
	if p.sink == nil {
		return true
	}
	return p.sink(callback, args...)
}

// NPCCount returns the number of allocated NPC slots.
func (p *Plugin) NPCCount() int { return len(p.npcs) }

func (p *Plugin) npc(id int) (*npcState, bool) {
	s, ok := p.npcs[id]
	return s, ok
}

// Create allocates the lowest free NPC id and fires FCNPC_OnCreate.
func (p *Plugin) Create(name string) int {
	if name == "" {
		return samp.InvalidID
	}
	for _, s := range p.npcs {
		if s.name == name {
			return samp.InvalidID
		}
	}
	id := -1
	for i := 0; i < p.maxNPCs; i++ {
		if _, used := p.npcs[i]; !used {
			id = i
			break
		}
	}
	if id < 0 {
		return samp.InvalidID
	}
	p.npcs[id] = &npcState{name: name, path: samp.InvalidMovePathID, node: -1, vehicle: samp.InvalidID, entering: samp.InvalidID}
	p.Fire("FCNPC_OnCreate", id)
	return id
}

// Destroy fires FCNPC_OnDestroy and then frees the slot.
func (p *Plugin) Destroy(id int) bool {
	if _, ok := p.npc(id); !ok {
		return false
	}
	p.Fire("FCNPC_OnDestroy", id)
	delete(p.npcs, id)
	return true
}

// IsValid reports whether id is allocated.
func (p *Plugin) IsValid(id int) bool {
	_, ok := p.npc(id)
	return ok
}

// Spawn spawns the NPC and fires FCNPC_OnSpawn.
func (p *Plugin) Spawn(id, _ int, pos samp.Vec3) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	s.spawned, s.dead = true, false
	s.pos = pos
	s.health = defaultHealth
	p.Fire("FCNPC_OnSpawn", id)
	return true
}

// Respawn revives a spawned NPC and fires FCNPC_OnRespawn.
func (p *Plugin) Respawn(id int) bool {
	s, ok := p.npc(id)
	if !ok || !s.spawned {
		return false
	}
	s.dead = false
	s.health = defaultHealth
	p.Fire("FCNPC_OnRespawn", id)
	return true
}

// Kill kills a live NPC and fires FCNPC_OnDeath with no killer.
func (p *Plugin) Kill(id int) bool {
	s, ok := p.npc(id)
	if !ok || !s.spawned || s.dead {
		return false
	}
	p.die(id, s)
	return true
}

func (p *Plugin) die(id int, s *npcState) {
	s.dead = true
	s.health = 0
	s.moving = false
	s.path = samp.InvalidMovePathID
	s.node = -1
	p.Fire("FCNPC_OnDeath", id, samp.InvalidID, int(KillWeapon))
}

// IsSpawned reports whether the NPC is spawned.
func (p *Plugin) IsSpawned(id int) bool {
	s, ok := p.npc(id)
	return ok && s.spawned
}

// IsDead reports whether the NPC is dead.
func (p *Plugin) IsDead(id int) bool {
	s, ok := p.npc(id)
	return ok && s.dead
}

// Position returns the NPC's position.
func (p *Plugin) Position(id int) samp.Vec3 {
	if s, ok := p.npc(id); ok {
		return s.pos
	}
	return samp.Vec3{}
}

// SetPosition teleports the NPC. A changed height fires FCNPC_OnChangeHeightPos.
func (p *Plugin) SetPosition(id int, pos samp.Vec3) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	old := s.pos
	s.pos = pos
	if s.spawned && old.Z != pos.Z {
		p.Fire("FCNPC_OnChangeHeightPos", id, pos.Z, old.Z)
	}
	return true
}

// Health returns the NPC's health.
func (p *Plugin) Health(id int) float32 {
	if s, ok := p.npc(id); ok {
		return s.health
	}
	return 0
}

// SetHealth sets health. Dropping a spawned NPC to zero kills it.
func (p *Plugin) SetHealth(id int, health float32) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	if health < 0 {
		health = 0
	}
	s.health = health
	if health == 0 && s.spawned && !s.dead {
		p.die(id, s)
	}
	return true
}

// Armour returns the NPC's armour.
func (p *Plugin) Armour(id int) float32 {
	if s, ok := p.npc(id); ok {
		return s.armour
	}
	return 0
}

// SetArmour sets the NPC's armour.
func (p *Plugin) SetArmour(id int, armour float32) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	s.armour = armour
	return true
}

// Weapon returns the held weapon.
func (p *Plugin) Weapon(id int) int {
	if s, ok := p.npc(id); ok {
		return s.weapon
	}
	return 0
}

// SetWeapon sets the held weapon. Unknown weapons are rejected.
func (p *Plugin) SetWeapon(id, weapon int) bool {
	s, ok := p.npc(id)
	if !ok || !samp.Weapon(weapon).Valid() {
		return false
	}
	s.weapon = weapon
	return true
}

// Ammo returns the held weapon's ammo.
func (p *Plugin) Ammo(id int) int {
	if s, ok := p.npc(id); ok {
		return s.ammo
	}
	return 0
}

// SetAmmo sets the held weapon's ammo.
func (p *Plugin) SetAmmo(id, ammo int) bool {
	s, ok := p.npc(id)
	if !ok || ammo < 0 {
		return false
	}
	s.ammo = ammo
	return true
}

func (p *Plugin) movable(id int) (*npcState, bool) {
	s, ok := p.npc(id)
	if !ok || !s.spawned || s.dead {
		return nil, false
	}
	return s, true
}

// GoTo starts moving towards pos. The move completes on the next Step.
func (p *Plugin) GoTo(id int, pos samp.Vec3, moveType int, _ float32) bool {
	s, ok := p.movable(id)
	if !ok || !samp.MoveType(moveType).Valid() {
		return false
	}
	s.moving = true
	s.dest = pos
	s.path = samp.InvalidMovePathID
	s.node = -1
	return true
}

// GoToPlayer is accepted but the simulation has no player positions, so the
// NPC stays in place until Step reports arrival.
func (p *Plugin) GoToPlayer(id, playerID, moveType int, speed float32) bool {
	if playerID < 0 || playerID >= samp.MaxPlayers {
		return false
	}
	s, ok := p.movable(id)
	if !ok {
		return false
	}
	return p.GoTo(id, s.pos, moveType, speed)
}

// Stop halts movement.
func (p *Plugin) Stop(id int) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	s.moving = false
	s.path = samp.InvalidMovePathID
	s.node = -1
	return true
}

// IsMoving reports whether the NPC has a pending move.
func (p *Plugin) IsMoving(id int) bool {
	s, ok := p.npc(id)
	return ok && s.moving
}

// AimAt starts aiming at a point.
func (p *Plugin) AimAt(id int, _ samp.Vec3, _ bool, _ int) bool {
	s, ok := p.movable(id)
	if !ok {
		return false
	}
	s.aiming = true
	return true
}

// AimAtPlayer starts aiming at a player.
func (p *Plugin) AimAtPlayer(id, playerID int, shoot bool, shootDelay int) bool {
	if playerID < 0 || playerID >= samp.MaxPlayers {
		return false
	}
	return p.AimAt(id, samp.Vec3{}, shoot, shootDelay)
}

// StopAim stops aiming.
func (p *Plugin) StopAim(id int) bool {
	s, ok := p.npc(id)
	if !ok {
		return false
	}
	s.aiming = false
	return true
}

// EnterVehicle starts entering a vehicle. Entry completes on the next Step.
func (p *Plugin) EnterVehicle(id, vehicleID, seat, moveType int) bool {
	s, ok := p.movable(id)
	if !ok || vehicleID < 0 || vehicleID >= samp.MaxVehicles || !samp.MoveType(moveType).Valid() {
		return false
	}
	s.entering = vehicleID
	s.seat = seat
	return true
}

// ExitVehicle leaves the vehicle and fires FCNPC_OnVehicleExitComplete.
func (p *Plugin) ExitVehicle(id int) bool {
	s, ok := p.npc(id)
	if !ok || s.vehicle == samp.InvalidID {
		return false
	}
	s.vehicle = samp.InvalidID
	p.Fire("FCNPC_OnVehicleExitComplete", id)
	return true
}

// PlayNode starts playing an open node. Playback finishes on the next Step.
func (p *Plugin) PlayNode(id, nodeID, moveType int, _ float32) bool {
	s, ok := p.movable(id)
	if !ok || !samp.MoveType(moveType).Valid() {
		return false
	}
	if _, open := p.nodes[nodeID]; !open {
		return false
	}
	s.node = nodeID
	s.moving = true
	return true
}

// StopPlayingNode stops node playback.
func (p *Plugin) StopPlayingNode(id int) bool {
	s, ok := p.npc(id)
	if !ok || s.node < 0 {
		return false
	}
	s.node = -1
	s.moving = false
	return true
}

// GoByMovePath starts following a move path. Each Step advances to the end.
func (p *Plugin) GoByMovePath(id, pathID, moveType int, _ float32) bool {
	s, ok := p.movable(id)
	if !ok || !samp.MoveType(moveType).Valid() {
		return false
	}
	points, exists := p.paths[pathID]
	if !exists || len(points) == 0 {
		return false
	}
	s.path = pathID
	s.moving = true
	return true
}

// CreateMovePath allocates the lowest free path id.
func (p *Plugin) CreateMovePath() int {
	if n := len(p.freePath); n > 0 {
		sort.Ints(p.freePath)
		id := p.freePath[0]
		p.freePath = p.freePath[1:]
		p.paths[id] = nil
		return id
	}
	id := p.nextPath
	p.nextPath++
	p.paths[id] = nil
	return id
}

// DestroyMovePath frees a path. NPCs following it stop.
func (p *Plugin) DestroyMovePath(pathID int) bool {
	if _, ok := p.paths[pathID]; !ok {
		return false
	}
	for _, s := range p.npcs {
		if s.path == pathID {
			s.path = samp.InvalidMovePathID
			s.moving = false
		}
	}
	delete(p.paths, pathID)
	p.freePath = append(p.freePath, pathID)
	return true
}

// IsValidMovePath reports whether the path exists.
func (p *Plugin) IsValidMovePath(pathID int) bool {
	_, ok := p.paths[pathID]
	return ok
}

// AddPointToPath appends a point.
func (p *Plugin) AddPointToPath(pathID int, pos samp.Vec3) bool {
	points, ok := p.paths[pathID]
	if !ok {
		return false
	}
	p.paths[pathID] = append(points, pos)
	return true
}

// RemovePointFromPath removes the point at index.
func (p *Plugin) RemovePointFromPath(pathID, point int) bool {
	points, ok := p.paths[pathID]
	if !ok || point < 0 || point >= len(points) {
		return false
	}
	p.paths[pathID] = append(points[:point:point], points[point+1:]...)
	return true
}

// MovePoint returns the point at index.
func (p *Plugin) MovePoint(pathID, point int) (samp.Vec3, bool) {
	points, ok := p.paths[pathID]
	if !ok || point < 0 || point >= len(points) {
		return samp.Vec3{}, false
	}
	return points[point], true
}

// AddPointsToPath appends every point in order.
func (p *Plugin) AddPointsToPath(pathID int, pos []samp.Vec3) bool {
	points, ok := p.paths[pathID]
	if !ok {
		return false
	}
	p.paths[pathID] = append(points, pos...)
	return true
}

// IsValidMovePoint reports whether index addresses a point on the path.
func (p *Plugin) IsValidMovePoint(pathID, point int) bool {
	points, ok := p.paths[pathID]
	return ok && point >= 0 && point < len(points)
}

// MovePointCount returns the number of points on a path.
func (p *Plugin) MovePointCount(pathID int) int {
	return len(p.paths[pathID])
}

// OpenNode opens a node file.
func (p *Plugin) OpenNode(nodeID int) bool {
	if nodeID < 0 || nodeID >= samp.MaxNodes {
		return false
	}
	if _, open := p.nodes[nodeID]; open {
		return false
	}
	file, ok := p.files[nodeID]
	if !ok {
		file = nodeState{typ: int(samp.NodeTypePed)}
	}
	p.nodes[nodeID] = &file
	return true
}

// CloseNode closes a node file. NPCs playing it stop.
func (p *Plugin) CloseNode(nodeID int) bool {
	if _, open := p.nodes[nodeID]; !open {
		return false
	}
	for _, s := range p.npcs {
		if s.node == nodeID {
			s.node = -1
			s.moving = false
		}
	}
	delete(p.nodes, nodeID)
	return true
}

// IsNodeOpen reports whether the node is open.
func (p *Plugin) IsNodeOpen(nodeID int) bool {
	_, open := p.nodes[nodeID]
	return open
}

// NodeType returns an open node's type.
func (p *Plugin) NodeType(nodeID int) int {
	if n, open := p.nodes[nodeID]; open {
		return n.typ
	}
	return int(samp.NodeTypeNone)
}

// NodePointCount returns an open node's point count.
func (p *Plugin) NodePointCount(nodeID int) int {
	if n, open := p.nodes[nodeID]; open {
		return n.points
	}
	return 0
}

// SetNodePoint moves an open node's cursor to point.
func (p *Plugin) SetNodePoint(nodeID, point int) bool {
	n, open := p.nodes[nodeID]
	if !open || point < 0 || point >= n.points {
		return false
	}
	n.cursor = point
	return true
}

// NodePointPosition returns the position under an open node's cursor.
// Simulated node point i lies at (i, i, 0).
func (p *Plugin) NodePointPosition(nodeID int) (samp.Vec3, bool) {
	n, open := p.nodes[nodeID]
	if !open || n.points == 0 {
		return samp.Vec3{}, false
	}
	return samp.Vec3{X: float32(n.cursor), Y: float32(n.cursor)}, true
}

// NodeInfo reports how many vehicle, pedestrian and navigation points an
// open node holds. Boat nodes count as vehicle nodes.
func (p *Plugin) NodeInfo(nodeID int) (vehicle, ped, navi int, ok bool) {
	n, open := p.nodes[nodeID]
	if !open {
		return 0, 0, 0, false
	}
	switch samp.NodeType(n.typ) {
	case samp.NodeTypePed:
		ped = n.points
	case samp.NodeTypeVehicle, samp.NodeTypeBoat:
		vehicle = n.points
	}
	return vehicle, ped, 0, true
}

// Step completes every pending movement in identifier order and fires the
// matching callbacks: FCNPC_OnReachDestination for plain moves,
// FCNPC_OnFinishMovePathPoint per point then FCNPC_OnFinishMovePath for
// paths, FCNPC_OnFinishNodePoint per point then FCNPC_OnFinishNode for nodes,
// and FCNPC_OnVehicleEntryComplete for pending vehicle entries. Callbacks may
// destroy NPCs; those are skipped.
func (p *Plugin) Step() {
	ids := make([]int, 0, len(p.npcs))
	for id := range p.npcs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		s, ok := p.npc(id)
		if !ok {
			continue
		}
		switch {
		case s.entering != samp.InvalidID:
			vehicle, seat := s.entering, s.seat
			s.entering = samp.InvalidID
			s.vehicle = vehicle
			p.Fire("FCNPC_OnVehicleEntryComplete", id, vehicle, seat)
		case s.moving && s.path != samp.InvalidMovePathID:
			p.stepPath(id, s)
		case s.moving && s.node >= 0:
			p.stepNode(id, s)
		case s.moving:
			s.moving = false
			s.pos = s.dest
			p.Fire("FCNPC_OnReachDestination", id)
		}
	}
}

func (p *Plugin) stepPath(id int, s *npcState) {
	pathID := s.path
	points := p.paths[pathID]
	for i, pt := range points {
		s.pos = pt
		p.Fire("FCNPC_OnFinishMovePathPoint", id, pathID, i)
		if cur, ok := p.npc(id); !ok || cur.path != pathID {
			return
		}
	}
	s.moving = false
	s.path = samp.InvalidMovePathID
	p.Fire("FCNPC_OnFinishMovePath", id, pathID)
}

func (p *Plugin) stepNode(id int, s *npcState) {
	nodeID := s.node
	n := p.nodes[nodeID]
	for i := 0; n != nil && i < n.points; i++ {
		p.Fire("FCNPC_OnFinishNodePoint", id, i)
		if cur, ok := p.npc(id); !ok || cur.node != nodeID {
			return
		}
	}
	s.moving = false
	s.node = -1
	p.Fire("FCNPC_OnFinishNode", id)
}
