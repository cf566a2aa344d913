// Package script hosts Lua plugins. Each tool instance owns one Environment;
// library and plugin chunks are executed in it in load order, and plugins
// register themselves with
//
//	bridges.register("name", function()
//	  local p = {}
//	  function p:convert(ctx, input)
//	    local opts = ctx.options.get()
//	    return input
//	  end
//	  return p
//	end)
package script

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/bobmcallan/toolrt/internal/bridge"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/loader"
	"github.com/bobmcallan/toolrt/internal/models"
)

// Environment is a Lua state bound to one bridge registry.
type Environment struct {
	mu       sync.Mutex
	L        *lua.LState
	registry *bridge.Registry
	logger   *common.Logger
	closed   bool
}

var _ loader.Environment = (*Environment)(nil)

// New creates an Environment whose bridges.register global writes into reg.
func New(reg *bridge.Registry, logger *common.Logger) *Environment {
	e := &Environment{
		L:        lua.NewState(),
		registry: reg,
		logger:   logger,
	}
	bridges := e.L.NewTable()
	e.L.SetField(bridges, "register", e.L.NewFunction(e.register))
	e.L.SetField(bridges, "log", e.L.NewFunction(e.log))
	e.L.SetGlobal("bridges", bridges)
	return e
}

// Install executes a fetched chunk.
func (e *Environment) Install(res loader.Resource) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("environment closed")
	}

	fn, err := e.L.Load(bytes.NewReader(res.Body), res.Name)
	if err != nil {
		return fmt.Errorf("compile %s: %w", res.Name, err)
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		return fmt.Errorf("run %s: %w", res.Name, err)
	}
	e.logger.Debug().Str("resource", res.Name).Int("bytes", len(res.Body)).Msg("script installed")
	return nil
}

// Close releases the Lua state.
func (e *Environment) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.L.Close()
		e.closed = true
	}
}

// register implements bridges.register(name, factory).
func (e *Environment) register(L *lua.LState) int {
	name := L.CheckString(1)
	factory := L.CheckFunction(2)
	if err := e.registry.Register(name, e.factory(name, factory)); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.logger.Debug().Str("bridge", name).Msg("script bridge registered")
	return 0
}

// log implements bridges.log(msg).
func (e *Environment) log(L *lua.LState) int {
	e.logger.Info().Str("source", "script").Msg(L.CheckString(1))
	return 0
}

// factory wraps a Lua factory. A table exposing convert (or converter) becomes
// a Transformer; any other result is returned as is and fails resolution.
func (e *Environment) factory(name string, fn *lua.LFunction) bridge.Factory {
	return func() any {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			panic("environment closed")
		}

		if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
			panic(fmt.Sprintf("bridge %s factory: %v", name, err))
		}
		ret := e.L.Get(-1)
		e.L.Pop(1)

		tbl, ok := ret.(*lua.LTable)
		if !ok {
			return ret
		}
		convert, ok := tbl.RawGetString("convert").(*lua.LFunction)
		if !ok {
			convert, ok = tbl.RawGetString("converter").(*lua.LFunction)
		}
		if !ok {
			return tbl
		}
		return &transformer{env: e, self: tbl, convert: convert}
	}
}

type transformer struct {
	env     *Environment
	self    *lua.LTable
	convert *lua.LFunction
}

func (t *transformer) Transform(rc *bridge.Context, input string) (string, error) {
	e := t.env
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", fmt.Errorf("environment closed")
	}

	L := e.L
	options := L.NewTable()
	L.SetField(options, "get", L.NewFunction(func(L *lua.LState) int {
		L.Push(snapshotTable(L, rc.Snapshot()))
		return 1
	}))
	ctx := L.NewTable()
	L.SetField(ctx, "options", options)

	if err := L.CallByParam(lua.P{Fn: t.convert, NRet: 1, Protect: true}, t.self, ctx, lua.LString(input)); err != nil {
		return "", err
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return v.String(), nil
	case *lua.LNilType:
		return "", nil
	}
	return "", fmt.Errorf("convert returned %s, want string", ret.Type())
}

func snapshotTable(L *lua.LState, s models.OptionsSnapshot) *lua.LTable {
	tbl := L.NewTable()
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := s[k].(type) {
		case bool:
			tbl.RawSetString(k, lua.LBool(v))
		case string:
			tbl.RawSetString(k, lua.LString(v))
		case float64:
			tbl.RawSetString(k, lua.LNumber(v))
		case int:
			tbl.RawSetString(k, lua.LNumber(v))
		case nil:
		default:
			tbl.RawSetString(k, lua.LString(fmt.Sprint(v)))
		}
	}
	return tbl
}
