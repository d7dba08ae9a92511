package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/montyhall/game"
)

const luaShellGlobal = "montyhall_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// runLua runs a shell command built from the Lua call's first argument
// and pushes its output, or an ERROR string.
func runLua(L *lua.LState, cmdName string) (*Response, bool) {
	lv := L.OptString(1, "")
	sc := getShell(L)
	r, err := sc.standardModeSwitch(cmdName + " " + lv)
	if err != nil {
		log.Err(err).Msg("error-executing-" + cmdName)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return nil, false
	}
	if r == nil {
		r = msg("")
	}
	L.Push(lua.LString(r.message))
	return r, true
}

func Batch(L *lua.LState) int {
	if _, ok := runLua(L, "batch"); !ok {
		return 1
	}
	sc := getShell(L)
	L.Push(lua.LNumber(sc.lastBatch.Table.WinRate(game.Stay)))
	L.Push(lua.LNumber(sc.lastBatch.Table.WinRate(game.Switch)))
	// return number of results pushed to stack.
	return 3
}

func Trial(L *lua.LState) int {
	runLua(L, "trial")
	return 1
}

func Set(L *lua.LState) int {
	key := L.CheckString(1)
	val := L.OptString(2, "")
	sc := getShell(L)
	r, err := sc.set(&shellcmd{cmd: "set", args: strings.Fields(key + " " + val)})
	if err != nil {
		log.Err(err).Msg("error-executing-set")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	return 1
}

func Sim(L *lua.LState) int {
	if _, ok := runLua(L, "sim"); !ok {
		return 1
	}
	// Scripts run top to bottom, so wait for the sim here.
	L.Pop(1)
	sc := getShell(L)
	r, err := sc.simControlArguments([]string{"wait"})
	if err != nil {
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	return 1
}

func (sc *ShellController) scriptPath(path string) string {
	if filepath.IsAbs(path) || sc.execPath == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(sc.execPath, path)
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := sc.scriptPath(cmd.args[0])

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal(luaShellGlobal, lsc)

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"batch": Batch,
		"trial": Trial,
		"set":   Set,
		"sim":   Sim,
	})
	L.SetGlobal("montyhall", mod)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran script " + filepath), nil
}
