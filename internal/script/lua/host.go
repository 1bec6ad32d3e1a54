// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/npcbridge/internal/bridge"
	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/script"
	"github.com/holomush/npcbridge/pkg/errutil"
)

// handlerName is the global function a script defines to receive
// notifications.
const handlerName = "on_notification"

type subscription struct {
	npc *npc.NPC
	sub npc.Subscription
}

// loaded is one running script. Its state lives as long as the script so
// globals persist between notifications.
type loaded struct {
	manifest *script.Manifest
	state    *lua.LState
	kinds    []npc.Kind
	subs     []subscription
}

// Host runs scripts against the NPCs of one bridge. Like the bridge, it is
// not safe for concurrent use.
type Host struct {
	factory *StateFactory
	bridge  *bridge.Bridge
	logger  *slog.Logger
	scripts map[string]*loaded
	closed  bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger scripts write to and failures are reported on.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHost creates a script host and hooks it into b so every NPC the bridge
// acquires is attached to every loaded script.
// Panics if b is nil.
func NewHost(b *bridge.Bridge, opts ...HostOption) *Host {
	if b == nil {
		panic("lua.NewHost: bridge cannot be nil")
	}
	h := &Host{
		factory: NewStateFactory(),
		bridge:  b,
		logger:  slog.Default(),
		scripts: make(map[string]*loaded),
	}
	for _, opt := range opts {
		opt(h)
	}
	b.OnNPCAcquired(h.attachAll)
	return h
}

// Load starts a script. Live NPCs are attached before the entry chunk runs,
// so NPCs the chunk creates are attached through the bridge hook.
func (h *Host) Load(ctx context.Context, manifest *script.Manifest, dir string) error {
	errb := oops.In("lua").With("script", manifest.Name).With("operation", "load")
	if h.closed {
		return errb.New("host is closed")
	}
	if _, dup := h.scripts[manifest.Name]; dup {
		return errb.New("script already loaded")
	}

	entryPath := filepath.Join(dir, filepath.Clean(manifest.Entry))
	code, err := os.ReadFile(entryPath) //nolint:gosec // entry is validated to stay inside dir
	if err != nil {
		return errb.With("path", entryPath).Hint("failed to read entry file").Wrap(err)
	}

	L, err := h.factory.NewState(ctx)
	if err != nil {
		return errb.Hint("failed to create state").Wrap(err)
	}
	s := &loaded{manifest: manifest, state: L, kinds: manifest.Kinds()}
	h.registerFunctions(L, manifest.Name)

	h.scripts[manifest.Name] = s
	for _, n := range h.bridge.NPCs() {
		h.attach(s, n)
	}

	if err := L.DoString(string(code)); err != nil {
		h.unload(s)
		return errb.With("entry", manifest.Entry).Hint("failed to run entry chunk").Wrap(err)
	}
	if L.GetGlobal(handlerName).Type() != lua.LTFunction {
		h.logger.Warn("script defines no notification handler", "script", manifest.Name, "handler", handlerName)
	}

	h.logger.Info("loaded script", "script", manifest.Name, "version", manifest.Version, "kinds", len(s.kinds))
	return nil
}

// LoadAll loads every discovered script. Failures are logged and skipped.
func (h *Host) LoadAll(ctx context.Context, found []*script.Discovered) int {
	n := 0
	for _, d := range found {
		if err := h.Load(ctx, d.Manifest, d.Dir); err != nil {
			errutil.LogError(h.logger, "failed to load script", err)
			continue
		}
		n++
	}
	return n
}

// Unload stops a script and removes its observers.
func (h *Host) Unload(name string) error {
	s, ok := h.scripts[name]
	if !ok {
		return oops.In("lua").With("script", name).With("operation", "unload").New("script not loaded")
	}
	h.unload(s)
	return nil
}

func (h *Host) unload(s *loaded) {
	for _, sub := range s.subs {
		sub.npc.Unregister(sub.sub)
	}
	s.subs = nil
	delete(h.scripts, s.manifest.Name)
	s.state.Close()
}

// Scripts returns the names of loaded scripts, sorted.
func (h *Host) Scripts() []string {
	names := make([]string, 0, len(h.scripts))
	for name := range h.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close unloads every script.
func (h *Host) Close() error {
	for _, s := range h.scripts {
		h.unload(s)
	}
	h.closed = true
	return nil
}

func (h *Host) attachAll(n *npc.NPC) {
	for _, name := range h.Scripts() {
		h.attach(h.scripts[name], n)
	}
}

func (h *Host) attach(s *loaded, n *npc.NPC) {
	live := s.subs[:0]
	for _, sub := range s.subs {
		if !sub.npc.Disposed() {
			live = append(live, sub)
		}
	}
	s.subs = live

	for _, kind := range s.kinds {
		sub := n.Register(kind, h.observer(s, n))
		s.subs = append(s.subs, subscription{npc: n, sub: sub})
	}
}

// observer calls the script's handler with a table describing the
// notification. For vetoable kinds, setting prevent on the table vetoes.
func (h *Host) observer(s *loaded, n *npc.NPC) npc.Observer {
	name := s.manifest.Name
	return func(note npc.Notification) {
		L := s.state
		if L.IsClosed() {
			return
		}
		fn := L.GetGlobal(handlerName)
		if fn.Type() != lua.LTFunction {
			return
		}

		t := notificationTable(L, n.ID(), note)
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, t); err != nil {
			recordCall(name, OutcomeError)
			errutil.LogError(h.logger, "script handler failed", oops.In("lua").
				With("script", name).
				With("kind", note.Kind().String()).
				With("npc", n.ID()).
				Wrap(err))
			return
		}
		recordCall(name, OutcomeOK)

		if note.Kind().Vetoable() && lua.LVAsBool(t.RawGetString("prevent")) {
			npc.Veto(note)
		}
	}
}
