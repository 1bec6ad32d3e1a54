// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/oops"
)

// Discovered is a validated script and the directory it was found in.
type Discovered struct {
	Manifest *Manifest
	Dir      string
}

// EntryPath returns the absolute path of the script's Lua entry file.
func (d *Discovered) EntryPath() string {
	return filepath.Join(d.Dir, filepath.Clean(d.Manifest.Entry))
}

// Manager discovers scripts in a directory.
type Manager struct {
	dir        string
	apiVersion string
	logger     *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithAPIVersion sets the API version scripts' requires constraints are
// checked against.
func WithAPIVersion(v string) ManagerOption {
	return func(m *Manager) {
		m.apiVersion = v
	}
}

// WithLogger sets the logger used for skipped scripts.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager for scripts under dir.
func NewManager(dir string, opts ...ManagerOption) *Manager {
	m := &Manager{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Skipped is a script directory that failed discovery.
type Skipped struct {
	Dir string
	Err error
}

// Discover finds every */script.yaml under the manager's directory, ordered
// by script name. Invalid or incompatible scripts are logged and skipped; a
// missing directory yields no scripts.
func (m *Manager) Discover(ctx context.Context) ([]*Discovered, error) {
	found, skipped, err := m.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		m.logger.WarnContext(ctx, "skipping script", "dir", s.Dir, "error", s.Err)
	}
	return found, nil
}

// Scan is Discover without logging: it returns the valid scripts and the
// directories that were skipped, in directory order.
func (m *Manager) Scan(_ context.Context) ([]*Discovered, []Skipped, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, oops.In("script").With("dir", m.dir).Hint("failed to read scripts directory").Wrap(err)
	}

	seen := make(map[string]string)
	var (
		found   []*Discovered
		skipped []Skipped
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		d, err := m.load(filepath.Join(m.dir, entry.Name()))
		if err == nil {
			if prev, dup := seen[d.Manifest.Name]; dup {
				err = invalid(d.Manifest.Name).With("first", prev).Errorf("duplicate script %q, first seen in %s", d.Manifest.Name, prev)
			}
		}
		if err != nil {
			skipped = append(skipped, Skipped{Dir: entry.Name(), Err: err})
			continue
		}
		seen[d.Manifest.Name] = entry.Name()
		found = append(found, d)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Manifest.Name < found[j].Manifest.Name })
	return found, skipped, nil
}

func (m *Manager) load(dir string) (*Discovered, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) //nolint:gosec // path is built from ReadDir entries
	if err != nil {
		return nil, oops.In("script").With("dir", dir).Wrap(err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if m.apiVersion != "" {
		ok, err := manifest.Supports(m.apiVersion)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid(manifest.Name).
				With("requires", manifest.Requires).
				With("api_version", m.apiVersion).
				Errorf("script requires %s, bridge API is %s", manifest.Requires, m.apiVersion)
		}
	}

	d := &Discovered{Manifest: manifest, Dir: dir}
	if _, err := os.Stat(d.EntryPath()); err != nil {
		return nil, invalid(manifest.Name).With("entry", manifest.Entry).Wrap(err)
	}
	return d, nil
}
