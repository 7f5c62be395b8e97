package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM restricts a Lua VM to declarative use. Manifests can compute
// values with string/table/math but cannot execute commands, touch the
// filesystem or load external code.
func sandboxLuaVM(L *lua.LState) {
	// System access
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	// Code loading
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// Sandbox escape via the debug library
	L.SetGlobal("debug", lua.LNil)

	// Kept: string, table, math and the basic utilities (type, tostring,
	// tonumber, pairs, ipairs, ...) — all safe for declarative manifests.
}

// newSandboxedVM creates the Lua state used for manifest parsing.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
