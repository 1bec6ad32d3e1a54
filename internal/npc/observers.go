// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package npc

// Observer receives notifications of the kind it was registered for.
type Observer func(n Notification)

// Subscription identifies one registration. The zero value matches nothing.
type Subscription struct {
	kind Kind
	id   uint64
}

// Kind returns the notification kind the subscription was made for.
func (s Subscription) Kind() Kind { return s.kind }

type registration struct {
	id uint64
	fn Observer
}

// observers is a per-kind multicast list. Dispatch iterates the slice header
// taken at the start of the call; Unregister always builds a new slice so an
// in-flight dispatch keeps seeing the list it started with.
type observers struct {
	byKind map[Kind][]registration
	nextID uint64
}

// Register adds fn as an observer for kind. Observers run in registration
// order. Registering on a disposed handle is allowed and has no effect on
// delivery since disposed handles receive nothing.
func (o *observers) Register(kind Kind, fn Observer) Subscription {
	if fn == nil || !kind.Valid() {
		return Subscription{}
	}
	if o.byKind == nil {
		o.byKind = make(map[Kind][]registration)
	}
	o.nextID++
	o.byKind[kind] = append(o.byKind[kind], registration{id: o.nextID, fn: fn})
	return Subscription{kind: kind, id: o.nextID}
}

// Unregister removes the observer identified by sub and reports whether it
// was registered.
func (o *observers) Unregister(sub Subscription) bool {
	list := o.byKind[sub.kind]
	for i, r := range list {
		if r.id != sub.id {
			continue
		}
		next := make([]registration, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(o.byKind, sub.kind)
		} else {
			o.byKind[sub.kind] = next
		}
		return true
	}
	return false
}

// Observers returns how many observers are registered for kind.
func (o *observers) Observers(kind Kind) int {
	return len(o.byKind[kind])
}

func (o *observers) dispatch(n Notification) {
	snapshot := o.byKind[n.Kind()]
	for _, r := range snapshot {
		r.fn(n)
	}
}

// Observable is implemented by handles that accept observers.
type Observable interface {
	Register(kind Kind, fn Observer) Subscription
	Unregister(sub Subscription) bool
}

// Observe registers a typed observer; the kind is taken from N.
//
//	npc.Observe(bot, func(d *npc.Died) { ... })
func Observe[N Notification](h Observable, fn func(N)) Subscription {
	var zero N
	return h.Register(zero.Kind(), func(n Notification) {
		if typed, ok := n.(N); ok {
			fn(typed)
		}
	})
}
