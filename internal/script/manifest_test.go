// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/script"
	"github.com/holomush/npcbridge/pkg/errutil"
)

const validManifest = `
name: guard-patrol
version: 1.2.0
requires: ">= 1.0.0, < 2.0.0"
events:
  - lifecycle.*
  - combat.weapon_shot
entry: main.lua
`

func TestParseManifest_Valid(t *testing.T) {
	m, err := script.ParseManifest([]byte(validManifest))
	require.NoError(t, err)

	assert.Equal(t, "guard-patrol", m.Name)
	assert.Equal(t, "main.lua", m.Entry)
	require.NotNil(t, m.SemVer())
	assert.Equal(t, uint64(2), m.SemVer().Minor())

	assert.True(t, m.Matches(npc.KindDied))
	assert.True(t, m.Matches(npc.KindWeaponShot))
	assert.False(t, m.Matches(npc.KindTookDamage))
	assert.False(t, m.Matches(npc.KindUpdate))
	assert.Len(t, m.Kinds(), 6)
}

func TestManifest_NoEventsMatchesAll(t *testing.T) {
	m, err := script.ParseManifest([]byte("name: all\nversion: 0.1.0\nentry: all.lua\n"))
	require.NoError(t, err)
	assert.Len(t, m.Kinds(), len(npc.Kinds()))
	assert.False(t, m.Matches(npc.Kind(0)))
}

func TestManifest_GlobSegments(t *testing.T) {
	tests := []struct {
		pattern string
		kind    npc.Kind
		want    bool
	}{
		{"combat.*", npc.KindWeaponShot, true},
		{"combat.*", npc.KindDied, false},
		{"*", npc.KindDied, false},
		{"**", npc.KindDied, true},
		{"*.finished", npc.KindNodeFinished, true},
		{"*.finished", npc.KindMovePathPointFinished, false},
		{"movepath.*", npc.KindMovePathPointFinished, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.kind.String(), func(t *testing.T) {
			m := &script.Manifest{Name: "g", Version: "1.0.0", Entry: "g.lua", Events: []string{tt.pattern}}
			require.NoError(t, m.Validate())
			assert.Equal(t, tt.want, m.Matches(tt.kind))
		})
	}
}

func TestManifest_Invalid(t *testing.T) {
	base := func() script.Manifest {
		return script.Manifest{Name: "ok", Version: "1.0.0", Entry: "main.lua"}
	}
	tests := []struct {
		name    string
		mutate  func(m *script.Manifest)
		wantErr string
	}{
		{"empty name", func(m *script.Manifest) { m.Name = "" }, "name"},
		{"uppercase name", func(m *script.Manifest) { m.Name = "Guard" }, "name"},
		{"trailing hyphen", func(m *script.Manifest) { m.Name = "guard-" }, "name"},
		{"long name", func(m *script.Manifest) { m.Name = strings.Repeat("a", 65) }, "64 characters"},
		{"missing version", func(m *script.Manifest) { m.Version = "" }, "version"},
		{"leading v", func(m *script.Manifest) { m.Version = "v1.0.0" }, "version"},
		{"two part version", func(m *script.Manifest) { m.Version = "1.0" }, "version"},
		{"bad requires", func(m *script.Manifest) { m.Requires = ">>> 1" }, "requires"},
		{"empty pattern", func(m *script.Manifest) { m.Events = []string{""} }, "empty pattern"},
		{"bad pattern", func(m *script.Manifest) { m.Events = []string{"combat.[a"} }, "pattern"},
		{"missing entry", func(m *script.Manifest) { m.Entry = "" }, "entry"},
		{"escaping entry", func(m *script.Manifest) { m.Entry = "../main.lua" }, "inside"},
		{"absolute entry", func(m *script.Manifest) { m.Entry = "/tmp/main.lua" }, "inside"},
		{"not lua", func(m *script.Manifest) { m.Entry = "main.py" }, ".lua"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, script.CodeInvalidManifest)
			assert.Contains(t, describe(err), tt.wantErr)
		})
	}
}

func TestParseManifest_Empty(t *testing.T) {
	_, err := script.ParseManifest(nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, script.CodeInvalidManifest)

	_, err = script.ParseManifest([]byte("name: [unclosed"))
	require.Error(t, err)
}

func TestManifest_Supports(t *testing.T) {
	m, err := script.ParseManifest([]byte(validManifest))
	require.NoError(t, err)

	ok, err := m.Supports("1.4.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Supports("2.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Supports("not-a-version")
	require.Error(t, err)

	open := &script.Manifest{Name: "o", Version: "1.0.0", Entry: "o.lua"}
	require.NoError(t, open.Validate())
	ok, err = open.Supports("9.9.9")
	require.NoError(t, err)
	assert.True(t, ok)
}

// describe flattens an oops error's message, hint, and context for matching.
func describe(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return err.Error()
	}
	return fmt.Sprint(oopsErr.Error(), " ", oopsErr.Hint(), " ", oopsErr.Context())
}
