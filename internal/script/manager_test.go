// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/npcbridge/internal/script"
)

func writeScript(t *testing.T, root, dir, manifest string, files ...string) {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, script.ManifestFile), []byte(manifest), 0o600))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(path, f), []byte("-- "+f+"\n"), 0o600))
	}
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "b-dir", "name: zulu\nversion: 1.0.0\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "a-dir", "name: alpha\nversion: 0.1.0\nentry: lib/init.lua\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a-dir", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a-dir", "lib", "init.lua"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("not a script"), 0o600))

	found, err := script.NewManager(root).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "alpha", found[0].Manifest.Name)
	assert.Equal(t, filepath.Join(root, "a-dir", "lib", "init.lua"), found[0].EntryPath())
	assert.Equal(t, "zulu", found[1].Manifest.Name)
	assert.Equal(t, filepath.Join(root, "b-dir"), found[1].Dir)
}

func TestManager_DiscoverSkipsInvalid(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "good", "name: good\nversion: 1.0.0\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "no-entry", "name: missing\nversion: 1.0.0\nentry: main.lua\n")
	writeScript(t, root, "bad-yaml", "name: [oops\n", "main.lua")
	writeScript(t, root, "bad-version", "name: badver\nversion: one\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "too-new", "name: future\nversion: 1.0.0\nrequires: \">= 2.0.0\"\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "zz-dup", "name: good\nversion: 2.0.0\nentry: main.lua\n", "main.lua")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	found, err := script.NewManager(root,
		script.WithAPIVersion("1.0.0"),
		script.WithLogger(logger),
	).Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, "good", found[0].Manifest.Name)
	assert.Equal(t, "1.0.0", found[0].Manifest.Version)

	logs := buf.String()
	assert.Contains(t, logs, "duplicate script")
	assert.Contains(t, logs, "dir=too-new")
	assert.Contains(t, logs, "dir=no-entry")
	assert.Contains(t, logs, "dir=empty")
}

func TestManager_DiscoverMissingDirectory(t *testing.T) {
	found, err := script.NewManager(filepath.Join(t.TempDir(), "absent")).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestManager_DiscoverNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := script.NewManager(file).Discover(context.Background())
	require.Error(t, err)
}

func TestManager_Scan(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "a", "name: alpha\nversion: 1.0.0\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "b", "name: alpha\nversion: 1.0.1\nentry: main.lua\n", "main.lua")
	writeScript(t, root, "c", "name: gamma\nversion: 1.0.0\nentry: ../escape.lua\n")

	found, skipped, err := script.NewManager(root).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1.0.0", found[0].Manifest.Version, "first directory wins")

	require.Len(t, skipped, 2)
	assert.Equal(t, "b", skipped[0].Dir)
	assert.Contains(t, skipped[0].Err.Error(), "duplicate")
	assert.Equal(t, "c", skipped[1].Dir)
}
