// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pool

// State is the lifecycle state of a pooled handle.
type State uint8

// Handle lifecycle states.
const (
	Live State = iota
	Disposed
)

func (s State) String() string {
	switch s {
	case Live:
		return "live"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Lifecycle carries the identifier and state of a pooled handle.
// Handle types embed it; only the owning Pool changes its state.
type Lifecycle struct {
	kind  string
	id    int
	state State
}

// ID returns the native identifier the handle was acquired under.
// It stays readable after dispose so stale handles can still be logged.
func (l *Lifecycle) ID() int { return l.id }

// State returns the current lifecycle state.
func (l *Lifecycle) State() State { return l.state }

// Disposed reports whether the handle has been released.
func (l *Lifecycle) Disposed() bool { return l.state == Disposed }

// Check returns a USE_AFTER_DISPOSE error naming op if the handle is disposed.
func (l *Lifecycle) Check(op string) error {
	if l.state == Disposed {
		return ErrUseAfterDispose(l.kind, l.id, op)
	}
	return nil
}

func (l *Lifecycle) lifecycle() *Lifecycle { return l }

// Handle is implemented by any type embedding Lifecycle.
type Handle interface {
	ID() int
	State() State
	lifecycle() *Lifecycle
}
