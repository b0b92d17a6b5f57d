package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Script is one Lua-defined system. Each script file returns a table:
//
//	return {
//	  name = "greenhouse",
//	  rate = 2,             -- updates per second, optional
//	  update = function(step_ms) emit("...") end,
//	}
type Script struct {
	Name   string
	Rate   float64 // 0 when the script leaves it to the caller
	Source string
	update *lua.LFunction
}

// Engine wraps a single gopher-lua VM shared by all scripts.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	scripts []*Script
	sink    func(text string)
}

// NewEngine creates a Lua VM with the simulation API installed.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("emit", vm.NewFunction(e.luaEmit))
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))
	return e
}

// LoadDir loads every .lua file in dir, in name order. A missing directory
// loads nothing.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return fmt.Errorf("read scripts dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fn, err := e.vm.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		fallback := strings.TrimSuffix(entry.Name(), ".lua")
		if _, err := e.register(fn, path, fallback); err != nil {
			return err
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString loads one script from source. name is used when the script's
// table has no name field.
func (e *Engine) LoadString(name, src string) (*Script, error) {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return e.register(fn, name, name)
}

func (e *Engine) register(chunk *lua.LFunction, source, fallbackName string) (*Script, error) {
	e.vm.Push(chunk)
	if err := e.vm.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("run %s: %w", source, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script %s: must return a table, got %s", source, ret.Type())
	}
	update, ok := tbl.RawGetString("update").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("script %s: missing update function", source)
	}

	s := &Script{
		Name:   fallbackName,
		Source: source,
		update: update,
	}
	if n, ok := tbl.RawGetString("name").(lua.LString); ok && n != "" {
		s.Name = string(n)
	}
	if r, ok := tbl.RawGetString("rate").(lua.LNumber); ok {
		if r <= 0 {
			return nil, fmt.Errorf("script %s: rate must be positive, got %v", source, r)
		}
		s.Rate = float64(r)
	}
	e.scripts = append(e.scripts, s)
	return s, nil
}

// Scripts returns loaded scripts in load order.
func (e *Engine) Scripts() []*Script { return e.scripts }

// Update calls the script's update(step_ms). Calls to emit() made during
// the call are passed to sink.
func (e *Engine) Update(s *Script, stepMs float64, sink func(text string)) error {
	e.sink = sink
	defer func() { e.sink = nil }()

	if err := e.vm.CallByParam(lua.P{
		Fn:      s.update,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(stepMs)); err != nil {
		return fmt.Errorf("script %s update: %w", s.Name, err)
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) luaEmit(L *lua.LState) int {
	text := L.CheckString(1)
	if e.sink == nil {
		L.RaiseError("emit called outside update")
		return 0
	}
	e.sink(text)
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Debug("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
