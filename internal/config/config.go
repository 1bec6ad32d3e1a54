// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads npcbridge configuration.
//
// Values are layered: built-in defaults, then a YAML file, then command-line
// flags the user actually set.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/npcbridge/internal/logging"
	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/xdg"
)

// CodeInvalidConfig is returned for configuration that fails validation.
const CodeInvalidConfig = "INVALID_CONFIG"

// Config is the resolved npcbridge configuration.
type Config struct {
	// Scripts is the directory scanned for script manifests.
	Scripts string `koanf:"scripts"`
	// StrictEnums makes out-of-range enum arguments fail routing.
	StrictEnums bool `koanf:"strict_enums"`
	// MetricsAddr is the metrics/health HTTP address; empty disables it.
	MetricsAddr string         `koanf:"metrics_addr"`
	Log         Log            `koanf:"log"`
	Capacity    map[string]int `koanf:"capacity"`
}

// Log configures logging.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	scripts, err := xdg.ScriptsDir()
	if err != nil {
		scripts = "scripts"
	}
	return map[string]any{
		"scripts":      scripts,
		"strict_enums": false,
		"metrics_addr": "",
		"log.format":   logging.FormatJSON,
		"log.level":    "info",
	}
}

// flagKeys maps flag names to config keys. Flags not listed are not config.
var flagKeys = map[string]string{
	"config":       "",
	"scripts":      "scripts",
	"strict-enums": "strict_enums",
	"metrics-addr": "metrics_addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
}

// Options controls where Load reads from.
type Options struct {
	// File is an explicit config file; it must exist. When empty the XDG
	// config file is read if present.
	File string
	// Flags, when set, overrides file values with flags the user changed.
	Flags *pflag.FlagSet
}

// Load resolves configuration from defaults, file and flags, then validates.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")
	for key, val := range Defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, oops.In("config").With("key", key).Wrap(err)
		}
	}

	path, required := opts.File, true
	if path == "" {
		required = false
		if p, err := xdg.ConfigFile(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := loadFile(k, path, required); err != nil {
			return nil, err
		}
	}

	if opts.Flags != nil {
		p := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, oops.In("config").Hint("failed to load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("config").Code(CodeInvalidConfig).Hint("failed to decode config").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return oops.In("config").With("file", path).Hint("config file not readable").Wrap(err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.In("config").Code(CodeInvalidConfig).With("file", path).Hint("failed to parse config file").Wrap(err)
	}
	return nil
}

// entities are the capacity keys Validate accepts.
var entities = []string{npc.EntityNPC, npc.EntityMovePath, npc.EntityNode, npc.EntityPlayer, npc.EntityVehicle}

// Validate checks that the configuration is usable.
func (cfg *Config) Validate() error {
	errb := oops.In("config").Code(CodeInvalidConfig)
	if cfg.Log.Format != logging.FormatJSON && cfg.Log.Format != logging.FormatText {
		return errb.With("log.format", cfg.Log.Format).Errorf("log-format must be 'json' or 'text', got %q", cfg.Log.Format)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return errb.Wrap(err)
	}

	keys := make([]string, 0, len(cfg.Capacity))
	for key := range cfg.Capacity {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !slices.Contains(entities, key) {
			return errb.With("entity", key).Errorf("capacity: unknown entity %q", key)
		}
		if cfg.Capacity[key] < 0 {
			return errb.With("entity", key).Errorf("capacity: %s must not be negative", key)
		}
	}
	return nil
}
