// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/samp"
)

// registerFunctions installs the npc.* host functions in L.
func (h *Host) registerFunctions(L *lua.LState, scriptName string) {
	mod := L.NewTable()
	L.SetField(mod, "create", L.NewFunction(h.createFn))
	L.SetField(mod, "destroy", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		raise(L, n.Dispose())
		return 0
	})))
	L.SetField(mod, "spawn", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		skin := L.CheckInt(2)
		raise(L, n.Spawn(skin, checkVec3(L, 3)))
		return 0
	})))
	L.SetField(mod, "kill", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		raise(L, n.Kill())
		return 0
	})))
	L.SetField(mod, "set_health", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		raise(L, n.SetHealth(float32(L.CheckNumber(2))))
		return 0
	})))
	L.SetField(mod, "health", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		hp, err := n.Health()
		raise(L, err)
		L.Push(lua.LNumber(hp))
		return 1
	})))
	L.SetField(mod, "go_to", L.NewFunction(h.withNPC(func(L *lua.LState, n *npc.NPC) int {
		pos := checkVec3(L, 2)
		moveType := samp.MoveType(L.OptInt(5, int(samp.MoveTypeAuto)))
		raise(L, n.GoTo(pos, moveType, samp.MoveSpeedAuto))
		return 0
	})))
	L.SetField(mod, "is_live", L.NewFunction(h.isLiveFn))
	L.SetField(mod, "log", L.NewFunction(h.logFn(scriptName)))
	L.SetGlobal("npc", mod)
}

func raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}

func checkVec3(L *lua.LState, first int) samp.Vec3 {
	return samp.Vec3{
		X: float32(L.CheckNumber(first)),
		Y: float32(L.CheckNumber(first + 1)),
		Z: float32(L.CheckNumber(first + 2)),
	}
}

// withNPC resolves the NPC id in argument 1 and raises if it has no live
// handle.
func (h *Host) withNPC(fn func(L *lua.LState, n *npc.NPC) int) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckInt(1)
		n, ok := h.bridge.NPC(id)
		if !ok {
			L.RaiseError("npc %d is not live", id)
			return 0
		}
		return fn(L, n)
	}
}

func (h *Host) createFn(L *lua.LState) int {
	name := L.CheckString(1)
	n, err := h.bridge.CreateNPC(name)
	raise(L, err)
	L.Push(lua.LNumber(n.ID()))
	return 1
}

func (h *Host) isLiveFn(L *lua.LState) int {
	_, ok := h.bridge.NPC(L.CheckInt(1))
	L.Push(lua.LBool(ok))
	return 1
}

func (h *Host) logFn(scriptName string) lua.LGFunction {
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		message := L.CheckString(2)

		logger := h.logger.With("script", scriptName)
		switch level {
		case "debug":
			logger.Debug(message)
		case "warn":
			logger.Warn(message)
		case "error":
			logger.Error(message)
		default:
			logger.Info(message)
		}
		return 0
	}
}
