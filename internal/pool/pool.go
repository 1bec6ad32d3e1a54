// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package pool maps small native identifiers to live managed handles.
//
// Native identifiers are dense and are reused as soon as the native entity is
// destroyed, so a Pool removes entries on Release instead of waiting for the
// handle to become unreachable. A re-acquired identifier always yields a new
// handle.
//
// Pools are not safe for concurrent use. All access happens on the host's
// single tick thread, including re-entrant calls made from observers.
package pool

import (
	"sort"
)

// Factory constructs the handle for a freshly acquired identifier.
type Factory[H Handle] func(id int) H

// Pool owns the identifier to handle mapping for one entity kind.
type Pool[H Handle] struct {
	kind     string
	capacity int
	factory  Factory[H]
	entries  map[int]H
	onChange func(kind string, live int)
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	capacity int
	onChange func(kind string, live int)
}

// WithCapacity bounds valid identifiers to [0, capacity). Zero means unbounded.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithChangeHook is called with the live count after every acquire and release.
func WithChangeHook(fn func(kind string, live int)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// New creates an empty pool for the named entity kind.
func New[H Handle](kind string, factory Factory[H], opts ...Option) *Pool[H] {
	if factory == nil {
		panic("pool.New: factory cannot be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Pool[H]{
		kind:     kind,
		capacity: o.capacity,
		factory:  factory,
		entries:  make(map[int]H),
		onChange: o.onChange,
	}
}

// Kind returns the entity kind name this pool was created with.
func (p *Pool[H]) Kind() string { return p.kind }

// Acquire creates and registers a live handle for id. The native layer must
// already have allocated id.
func (p *Pool[H]) Acquire(id int) (H, error) {
	var zero H
	if !p.inRange(id) {
		return zero, ErrInvalidIdentifier(p.kind, id, p.capacity)
	}
	if _, ok := p.entries[id]; ok {
		return zero, ErrDuplicateIdentifier(p.kind, id)
	}

	h := p.factory(id)
	lc := h.lifecycle()
	lc.kind = p.kind
	lc.id = id
	lc.state = Live

	p.entries[id] = h
	p.changed()
	return h, nil
}

// Lookup returns the live handle for id. Absence is a normal outcome.
func (p *Pool[H]) Lookup(id int) (H, bool) {
	h, ok := p.entries[id]
	return h, ok
}

// Release disposes the handle registered under id and frees the identifier.
// Releasing an absent identifier is a no-op.
func (p *Pool[H]) Release(id int) {
	h, ok := p.entries[id]
	if !ok {
		return
	}
	h.lifecycle().state = Disposed
	delete(p.entries, id)
	p.changed()
}

// ReleaseHandle releases h only if it is still the handle registered under
// its identifier. A stale handle whose identifier has been reused is left
// alone, so disposing it twice cannot free a newer entity's slot.
func (p *Pool[H]) ReleaseHandle(h H) bool {
	cur, ok := p.entries[h.ID()]
	if !ok || cur.lifecycle() != h.lifecycle() {
		return false
	}
	p.Release(h.ID())
	return true
}

// Len returns the number of live handles.
func (p *Pool[H]) Len() int { return len(p.entries) }

// Handles returns the live handles ordered by identifier.
func (p *Pool[H]) Handles() []H {
	ids := make([]int, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]H, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.entries[id])
	}
	return out
}

// Each calls fn for every handle live when Each was called, in identifier
// order. Handles released by an earlier call are skipped.
func (p *Pool[H]) Each(fn func(H)) {
	for _, h := range p.Handles() {
		if h.State() == Disposed {
			continue
		}
		fn(h)
	}
}

// Close releases every live handle.
func (p *Pool[H]) Close() {
	for _, h := range p.Handles() {
		p.Release(h.ID())
	}
}

func (p *Pool[H]) inRange(id int) bool {
	if id < 0 {
		return false
	}
	return p.capacity <= 0 || id < p.capacity
}

func (p *Pool[H]) changed() {
	if p.onChange != nil {
		p.onChange(p.kind, len(p.entries))
	}
}
