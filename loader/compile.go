// Package loader loads Lua case content into Go structs at load time.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/wardround/types"
)

// rawCase holds a case table before compilation.
type rawCase struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStrings converts the array part of a Lua table to []string.
func tableToStrings(tbl *lua.LTable) []string {
	out := []string{}
	if tbl == nil {
		return out
	}
	for i := 1; i <= tbl.Len(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToTables converts the array part of a Lua table to its table elements.
func tableToTables(tbl *lua.LTable) []*lua.LTable {
	var out []*lua.LTable
	if tbl == nil {
		return out
	}
	for i := 1; i <= tbl.Len(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// compile converts all collected Lua data into a Library.
func compile(coll *collector) (*types.Library, error) {
	lib := &types.Library{Cases: map[string]*types.PatientCase{}}

	sort.SliceStable(coll.cases, func(i, j int) bool {
		return coll.cases[i].order < coll.cases[j].order
	})

	for _, raw := range coll.cases {
		if _, dup := lib.Cases[raw.id]; dup {
			return nil, fmt.Errorf("duplicate case ID %q", raw.id)
		}
		c, err := compileCase(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling case %s: %w", raw.id, err)
		}
		lib.Cases[c.ID] = c
		lib.Order = append(lib.Order, c.ID)
	}
	if len(lib.Cases) == 0 {
		return nil, fmt.Errorf("no Case{} definitions found")
	}
	return lib, nil
}

func compileCase(raw rawCase) (*types.PatientCase, error) {
	tbl := raw.table
	c := &types.PatientCase{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Difficulty:  types.Difficulty(getString(tbl, "difficulty")),
		StartNodeID: getString(tbl, "start"),
		Nodes:       map[string]types.NarrativeNode{},
	}
	if c.Difficulty == "" {
		c.Difficulty = types.DifficultyEasy
	}

	c.InitialState = compileInitialState(tbl)

	nodesTbl := getTable(tbl, "nodes")
	if nodesTbl == nil {
		return c, nil
	}
	var err error
	nodesTbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		nodeTbl, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("node %s: expected a table", key)
			return
		}
		var n types.NarrativeNode
		n, err = compileNode(string(key), nodeTbl)
		if err != nil {
			err = fmt.Errorf("node %s: %w", key, err)
			return
		}
		c.Nodes[n.ID] = n
	})
	return c, err
}

func compileInitialState(tbl *lua.LTable) types.PatientState {
	s := types.PatientState{
		Vitals:        types.Vitals{},
		Flags:         tableToStrings(getTable(tbl, "flags")),
		Inventory:     tableToStrings(getTable(tbl, "inventory")),
		History:       []types.LogEntry{},
		Stress:        getNumber(tbl, "stress"),
		TimeElapsed:   getInt(tbl, "time"),
		Relationships: map[string]map[string]int{},
	}

	if vt := getTable(tbl, "vitals"); vt != nil {
		vt.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			if n, ok := v.(lua.LNumber); ok {
				s.Vitals[types.Vital(ks)] = float64(n)
			}
		})
	}

	// relationships = { nurse_kim = 2 } or { nurse_kim = { professional = 2 } }
	if rt := getTable(tbl, "relationships"); rt != nil {
		rt.ForEach(func(k, v lua.LValue) {
			npc, ok := k.(lua.LString)
			if !ok {
				return
			}
			dims := map[string]int{}
			switch val := v.(type) {
			case lua.LNumber:
				dims[types.DefaultDimension] = int(val)
			case *lua.LTable:
				val.ForEach(func(dk, dv lua.LValue) {
					if ds, ok := dk.(lua.LString); ok {
						if n, ok := dv.(lua.LNumber); ok {
							dims[string(ds)] = int(n)
						}
					}
				})
			}
			s.Relationships[string(npc)] = dims
		})
	}
	return s
}

func compileNode(id string, tbl *lua.LTable) (types.NarrativeNode, error) {
	n := types.NarrativeNode{
		ID:         id,
		Text:       getString(tbl, "text"),
		IsTerminal: getBool(tbl, "terminal", false),
	}

	onEnter, err := compileEffects(getTable(tbl, "on_enter"))
	if err != nil {
		return n, fmt.Errorf("on_enter: %w", err)
	}
	n.OnEnter = onEnter

	for i, ct := range tableToTables(getTable(tbl, "choices")) {
		c, err := compileChoice(ct)
		if err != nil {
			return n, fmt.Errorf("choice %d: %w", i+1, err)
		}
		n.Choices = append(n.Choices, c)
	}
	return n, nil
}

func compileChoice(tbl *lua.LTable) (types.Choice, error) {
	c := types.Choice{
		ID:         getString(tbl, "__choice_id"),
		Text:       getString(tbl, "text"),
		Category:   types.ChoiceCategory(getString(tbl, "category")),
		NextNodeID: getString(tbl, "next"),
		TimeCost:   getInt(tbl, "time"),
	}
	if c.ID == "" {
		c.ID = getString(tbl, "id")
	}
	if c.ID == "" {
		return c, fmt.Errorf("choice has no id (use Choice \"id\" { ... })")
	}

	reqs, err := compileRequirements(getTable(tbl, "requires"))
	if err != nil {
		return c, fmt.Errorf("%s: %w", c.ID, err)
	}
	c.Requirements = reqs

	effs, err := compileEffects(getTable(tbl, "effects"))
	if err != nil {
		return c, fmt.Errorf("%s: %w", c.ID, err)
	}
	c.Effects = effs
	return c, nil
}

func compileRequirements(tbl *lua.LTable) ([]types.Requirement, error) {
	var reqs []types.Requirement
	for _, rt := range tableToTables(tbl) {
		r, err := compileRequirement(rt)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

func compileRequirement(tbl *lua.LTable) (types.Requirement, error) {
	switch kind := getString(tbl, "type"); kind {
	case "flag":
		return types.FlagRequirement{Flag: getString(tbl, "flag")}, nil
	case "item":
		return types.ItemRequirement{Item: getString(tbl, "item")}, nil
	case "skill":
		return types.SkillRequirement{
			Skill:    getString(tbl, "skill"),
			Operator: getString(tbl, "operator"),
			Value:    getNumber(tbl, "value"),
		}, nil
	case "vital":
		return types.VitalRequirement{
			Vital:    types.Vital(getString(tbl, "vital")),
			Operator: getString(tbl, "operator"),
			Value:    getNumber(tbl, "value"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown requirement type %q", kind)
	}
}

func compileEffects(tbl *lua.LTable) ([]types.Effect, error) {
	var effs []types.Effect
	for _, et := range tableToTables(tbl) {
		e, err := compileEffect(et)
		if err != nil {
			return nil, err
		}
		effs = append(effs, e)
	}
	return effs, nil
}

func compileEffect(tbl *lua.LTable) (types.Effect, error) {
	note := types.Note{Description: getString(tbl, "description")}
	switch kind := getString(tbl, "type"); kind {
	case "add_flag":
		return types.AddFlag{Note: note, Flag: getString(tbl, "flag")}, nil
	case "remove_flag":
		return types.RemoveFlag{Note: note, Flag: getString(tbl, "flag")}, nil
	case "add_item":
		return types.AddItem{Note: note, Item: getString(tbl, "item")}, nil
	case "remove_item":
		return types.RemoveItem{Note: note, Item: getString(tbl, "item")}, nil
	case "set_vital":
		return types.SetVital{
			Note:  note,
			Vital: types.Vital(getString(tbl, "vital")),
			Value: getNumber(tbl, "value"),
		}, nil
	case "relationship":
		return types.AdjustRelationship{
			Note:   note,
			NPC:    getString(tbl, "npc"),
			Target: getString(tbl, "target"),
			Delta:  getInt(tbl, "delta"),
		}, nil
	case "stress":
		return types.AdjustStress{Note: note, Delta: getNumber(tbl, "delta")}, nil
	case "advance_time":
		return types.AdvanceTime{Note: note, Minutes: getInt(tbl, "minutes")}, nil
	case "game_over":
		return types.GameOver{Note: note}, nil
	case "win":
		return types.Win{Note: note}, nil
	case "craft_item":
		return types.CraftItem{Note: note, Recipe: getString(tbl, "recipe")}, nil
	case "note":
		return note, nil
	default:
		return nil, fmt.Errorf("unknown effect type %q", kind)
	}
}
