// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package script discovers and validates NPC behaviour scripts.
//
// A script lives in its own directory with a script.yaml manifest and a Lua
// entry file. Event patterns use gobwas/glob with '.' as the segment
// separator, matched against notification kind names:
//   - "combat.*" matches "combat.weapon_shot"
//   - "**" matches every kind
package script

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/npcbridge/internal/npc"
)

// ManifestFile is the manifest file name inside a script directory.
const ManifestFile = "script.yaml"

// CodeInvalidManifest is returned for manifests that fail validation.
const CodeInvalidManifest = "INVALID_MANIFEST"

// Manifest represents a script.yaml file.
type Manifest struct {
	Name        string   `yaml:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version     string   `yaml:"version" jsonschema:"minLength=1"`
	Description string   `yaml:"description,omitempty"`
	Requires    string   `yaml:"requires,omitempty"`
	Events      []string `yaml:"events,omitempty"`
	Entry       string   `yaml:"entry" jsonschema:"minLength=1"`

	version  *semver.Version
	requires *semver.Constraints
	patterns []glob.Glob
}

// maxNameLength is the maximum allowed length for script names.
const maxNameLength = 64

// namePattern validates script names: must start with a lowercase letter,
// followed by lowercase letters, digits, or hyphens, and not end with a hyphen.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

func invalid(name string) oops.OopsErrorBuilder {
	return oops.In("script").Code(CodeInvalidManifest).With("script", name)
}

// ParseManifest parses and validates a script.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, invalid("").Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, invalid("").Hint("invalid YAML").Wrap(err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks manifest constraints and compiles the event patterns.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return invalid(m.Name).Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return invalid(m.Name).Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	v, err := semver.StrictNewVersion(m.Version)
	if err != nil {
		return invalid(m.Name).With("version", m.Version).Hint("version must be strict semver, e.g. 1.2.3").Wrap(err)
	}
	m.version = v

	m.requires = nil
	if m.Requires != "" {
		c, err := semver.NewConstraint(m.Requires)
		if err != nil {
			return invalid(m.Name).With("requires", m.Requires).Hint("requires must be a semver constraint").Wrap(err)
		}
		m.requires = c
	}

	m.patterns = m.patterns[:0]
	for i, pattern := range m.Events {
		if pattern == "" {
			return invalid(m.Name).Errorf("events[%d]: empty pattern", i)
		}
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return invalid(m.Name).With("pattern", pattern).Wrap(err)
		}
		m.patterns = append(m.patterns, g)
	}

	if m.Entry == "" {
		return invalid(m.Name).Errorf("entry is required")
	}
	clean := filepath.Clean(m.Entry)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return invalid(m.Name).With("entry", m.Entry).Errorf("entry must stay inside the script directory")
	}
	if filepath.Ext(clean) != ".lua" {
		return invalid(m.Name).With("entry", m.Entry).Errorf("entry must be a .lua file")
	}
	return nil
}

// SemVer returns the parsed version. Nil before Validate succeeds.
func (m *Manifest) SemVer() *semver.Version { return m.version }

// Supports reports whether the script's requires constraint accepts the
// given API version. Scripts without a constraint support every version.
func (m *Manifest) Supports(apiVersion string) (bool, error) {
	if m.requires == nil {
		return true, nil
	}
	v, err := semver.NewVersion(apiVersion)
	if err != nil {
		return false, oops.In("script").With("api_version", apiVersion).Wrap(err)
	}
	return m.requires.Check(v), nil
}

// Matches reports whether the script subscribes to kind. A manifest without
// event patterns subscribes to everything.
func (m *Manifest) Matches(kind npc.Kind) bool {
	if len(m.patterns) == 0 {
		return kind.Valid()
	}
	name := kind.String()
	for _, g := range m.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Kinds returns the notification kinds the script subscribes to.
func (m *Manifest) Kinds() []npc.Kind {
	var out []npc.Kind
	for _, k := range npc.Kinds() {
		if m.Matches(k) {
			out = append(out, k)
		}
	}
	return out
}
