package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRequirementHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Case "id" { ... }: curried, Case("id") returns a function that takes a table.
	L.SetGlobal("Case", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.cases = append(coll.cases, rawCase{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Choice "id" { ... }: curried, returns the table tagged with its ID so
	// it can sit in a node's ordered choices list.
	L.SetGlobal("Choice", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__choice_id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))
}

func registerRequirementHelpers(L *lua.LState) {
	// HasFlag("flag")
	L.SetGlobal("HasFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// HasItem("item")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// Skill("skill", ">=", 3)
	L.SetGlobal("Skill", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		op := L.CheckString(2)
		value := L.CheckNumber(3)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("skill"))
		tbl.RawSetString("skill", lua.LString(skill))
		tbl.RawSetString("operator", lua.LString(op))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// Vital("spo2", "<", 90)
	L.SetGlobal("Vital", L.NewFunction(func(L *lua.LState) int {
		vital := L.CheckString(1)
		op := L.CheckString(2)
		value := L.CheckNumber(3)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("vital"))
		tbl.RawSetString("vital", lua.LString(vital))
		tbl.RawSetString("operator", lua.LString(op))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))
}

// effectTable builds an effect table, taking an optional description from
// argument position descArg.
func effectTable(L *lua.LState, kind string, descArg int) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(kind))
	if desc := L.OptString(descArg, ""); desc != "" {
		tbl.RawSetString("description", lua.LString(desc))
	}
	return tbl
}

func registerEffectHelpers(L *lua.LState) {
	// AddFlag("flag", "optional description")
	L.SetGlobal("AddFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "add_flag", 2)
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// RemoveFlag("flag", "optional description")
	L.SetGlobal("RemoveFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "remove_flag", 2)
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// AddItem("item", "optional description")
	L.SetGlobal("AddItem", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "add_item", 2)
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// RemoveItem("item", "optional description")
	L.SetGlobal("RemoveItem", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "remove_item", 2)
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// SetVital("heart_rate", 130, "optional description")
	L.SetGlobal("SetVital", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "set_vital", 3)
		tbl.RawSetString("vital", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", L.CheckNumber(2))
		L.Push(tbl)
		return 1
	}))

	// Relationship("nurse_kim", "professional", 2, "optional description")
	// Pass "" or nil as the dimension for the default one.
	L.SetGlobal("Relationship", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "relationship", 4)
		tbl.RawSetString("npc", lua.LString(L.CheckString(1)))
		tbl.RawSetString("target", lua.LString(L.OptString(2, "")))
		tbl.RawSetString("delta", L.CheckNumber(3))
		L.Push(tbl)
		return 1
	}))

	// Stress(10, "optional description")
	L.SetGlobal("Stress", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "stress", 2)
		tbl.RawSetString("delta", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// AdvanceTime(15, "optional description")
	L.SetGlobal("AdvanceTime", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "advance_time", 2)
		tbl.RawSetString("minutes", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// GameOver("optional description")
	L.SetGlobal("GameOver", L.NewFunction(func(L *lua.LState) int {
		L.Push(effectTable(L, "game_over", 1))
		return 1
	}))

	// Win("optional description")
	L.SetGlobal("Win", L.NewFunction(func(L *lua.LState) int {
		L.Push(effectTable(L, "win", 1))
		return 1
	}))

	// Craft("recipe", "optional description")
	L.SetGlobal("Craft", L.NewFunction(func(L *lua.LState) int {
		tbl := effectTable(L, "craft_item", 2)
		tbl.RawSetString("recipe", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Note("text")
	L.SetGlobal("Note", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("note"))
		tbl.RawSetString("description", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))
}
