// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/npcbridge/internal/config"
	"github.com/holomush/npcbridge/pkg/errutil"
)

// isolate points XDG lookups at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "npcbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("scripts", "flag-default-scripts", "")
	fs.Bool("strict-enums", false, "")
	fs.String("metrics-addr", "127.0.0.1:9100", "")
	fs.String("log-format", "json", "")
	fs.String("log-level", "info", "")
	fs.String("trace", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "npcbridge", "scripts"), cfg.Scripts)
	assert.False(t, cfg.StrictEnums)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Capacity)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, `
scripts: /srv/scripts
strict_enums: true
log:
  format: text
capacity:
  movepath: 16
  npc: 50
`)

	cfg, err := config.Load(config.Options{File: path})
	require.NoError(t, err)

	assert.Equal(t, "/srv/scripts", cfg.Scripts)
	assert.True(t, cfg.StrictEnums)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
	assert.Equal(t, map[string]int{"movepath": 16, "npc": 50}, cfg.Capacity)
}

func TestLoad_XDGFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config", "npcbridge"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "npcbridge", "config.yaml"),
		[]byte("metrics_addr: 127.0.0.1:9300\n"), 0o600))

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9300", cfg.MetricsAddr)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "scripts: /srv/scripts\nlog:\n  level: debug\n")

	flags := newFlags(t, "--log-level", "warn", "--strict-enums", "--trace", "x.trace")
	cfg, err := config.Load(config.Options{File: path, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "/srv/scripts", cfg.Scripts, "unchanged flag does not override file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.StrictEnums)
	assert.Empty(t, cfg.MetricsAddr, "unchanged flag default does not override built-in default")
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(config.Options{File: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err, "explicit file must exist")

	_, err = config.Load(config.Options{File: writeFile(t, dir, "log: [unclosed\n")})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, config.CodeInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{Log: config.Log{Format: "text", Level: "debug"}}
	}
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }},
		{"bad level", func(c *config.Config) { c.Log.Level = "chatty" }},
		{"unknown entity", func(c *config.Config) { c.Capacity = map[string]int{"boat": 1} }},
		{"negative capacity", func(c *config.Config) { c.Capacity = map[string]int{"npc": -1} }},
	}

	c := valid()
	require.NoError(t, c.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, config.CodeInvalidConfig)
		})
	}
}
