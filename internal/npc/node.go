// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

import (
	"fmt"

	"github.com/holomush/npcbridge/internal/native"
	"github.com/holomush/npcbridge/internal/pool"
	"github.com/holomush/npcbridge/internal/samp"
)

// Node is an open recorded-path file. Node identifiers are chosen by the
// caller and range over [0, samp.MaxNodes).
type Node struct {
	pool.Lifecycle

	natives native.NodeNatives
	release func(*Node)
}

// NodeInfo counts the points of each kind a node holds.
type NodeInfo struct {
	Vehicle int
	Ped     int
	Navi    int
}

// NewNode creates a node handle. It is meant to be used as a pool factory.
func NewNode(natives native.NodeNatives, release func(*Node)) *Node {
	return &Node{natives: natives, release: release}
}

// Type returns the node's type.
func (n *Node) Type() (samp.NodeType, error) {
	if err := n.Check("type"); err != nil {
		return 0, err
	}
	return samp.NodeType(n.natives.NodeType(n.ID())), nil
}

// Len returns the number of points in the node.
func (n *Node) Len() (int, error) {
	if err := n.Check("len"); err != nil {
		return 0, err
	}
	return n.natives.NodePointCount(n.ID()), nil
}

// SetPoint moves the node's cursor to point.
func (n *Node) SetPoint(point int) error {
	if err := n.Check("set_point"); err != nil {
		return err
	}
	return ok(n.natives.SetNodePoint(n.ID(), point), EntityNode, n.ID(), "set_point")
}

// PointPosition returns the position of the point under the cursor.
func (n *Node) PointPosition() (samp.Vec3, error) {
	if err := n.Check("point_position"); err != nil {
		return samp.Vec3{}, err
	}
	pos, found := n.natives.NodePointPosition(n.ID())
	if !found {
		return samp.Vec3{}, ErrNativeFailure(EntityNode, n.ID(), "point_position")
	}
	return pos, nil
}

// Info returns the node's point counts.
func (n *Node) Info() (NodeInfo, error) {
	if err := n.Check("info"); err != nil {
		return NodeInfo{}, err
	}
	vehicle, ped, navi, found := n.natives.NodeInfo(n.ID())
	if !found {
		return NodeInfo{}, ErrNativeFailure(EntityNode, n.ID(), "info")
	}
	return NodeInfo{Vehicle: vehicle, Ped: ped, Navi: navi}, nil
}

// Close closes the node natively and releases the handle. Idempotent.
func (n *Node) Close() error {
	if n.Disposed() {
		return nil
	}
	if n.natives.IsNodeOpen(n.ID()) {
		n.natives.CloseNode(n.ID())
	}
	if n.release != nil {
		n.release(n)
	}
	return nil
}

func (n *Node) String() string { return fmt.Sprintf("node %d", n.ID()) }
