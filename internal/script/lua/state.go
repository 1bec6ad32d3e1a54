// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package lua runs NPC behaviour scripts in sandboxed Lua states.
package lua

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// library is a Lua standard library that is safe to open in a script state.
type library struct {
	name string
	fn   lua.LGFunction
}

// sandboxLibraries are opened in every script state: base, table, string
// and math. os, io, debug and package are never opened.
func sandboxLibraries() []library {
	return []library{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// blockedGlobals are base library functions that can reach the filesystem
// or compile arbitrary chunks.
var blockedGlobals = []string{"dofile", "loadfile", "loadstring", "load", "require", "module"}

// defaultCallStackSize bounds recursion depth in scripts.
const defaultCallStackSize = 256

// StateFactory creates sandboxed Lua states.
type StateFactory struct {
	libraries     []library
	callStackSize int
}

// NewStateFactory creates a state factory with the sandbox libraries.
func NewStateFactory() *StateFactory {
	return &StateFactory{
		libraries:     sandboxLibraries(),
		callStackSize: defaultCallStackSize,
	}
}

// NewState creates a fresh sandboxed state bound to ctx.
func (f *StateFactory) NewState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: f.callStackSize,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.In("lua").With("library", lib.name).Errorf("failed to open library %s: %w", lib.name, err)
		}
	}

	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	if ctx != nil {
		L.SetContext(ctx)
	}
	return L, nil
}

// Compile checks that a script's source parses, without running it.
func (f *StateFactory) Compile(name, code string) error {
	L, err := f.NewState(context.Background())
	if err != nil {
		return err
	}
	defer L.Close()
	if _, err := L.LoadString(code); err != nil {
		return oops.In("lua").With("script", name).Hint("script does not compile").Wrap(err)
	}
	return nil
}
