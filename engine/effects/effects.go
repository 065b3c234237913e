// Package effects implements centralized patient-state mutation via Apply.
// Every effect is one atomic operation, applied in list order.
package effects

import (
	"fmt"

	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// Apply applies a list of effects to the patient state, mutating it.
// Each history line is stamped with the elapsed time at the moment it is
// written. Returns the events emitted.
func Apply(s *types.PatientState, effs []types.Effect) []types.Event {
	var events []types.Event

	for _, eff := range effs {
		if eff == nil {
			continue
		}
		events = append(events, applyOne(s, eff)...)

		if desc := eff.Describe(); desc != "" {
			state.Log(s, desc)
		}
	}

	return events
}

func applyOne(s *types.PatientState, eff types.Effect) []types.Event {
	switch e := eff.(type) {
	case types.AddFlag:
		if state.HasFlag(s, e.Flag) {
			return nil
		}
		s.Flags = append(s.Flags, e.Flag)
		state.Log(s, "Flag added: "+e.Flag)
		return event(types.EventFlagAdded, "flag", e.Flag)

	case types.RemoveFlag:
		if !state.HasFlag(s, e.Flag) {
			return nil
		}
		s.Flags = removeAll(s.Flags, e.Flag)
		state.Log(s, "Flag removed: "+e.Flag)
		return event(types.EventFlagRemoved, "flag", e.Flag)

	case types.AddItem:
		s.Inventory = append(s.Inventory, e.Item)
		state.Log(s, "Item added: "+e.Item)
		return event(types.EventItemAdded, "item", e.Item)

	case types.RemoveItem:
		var ok bool
		s.Inventory, ok = removeOne(s.Inventory, e.Item)
		if !ok {
			return nil
		}
		state.Log(s, "Item removed: "+e.Item)
		return event(types.EventItemRemoved, "item", e.Item)

	case types.SetVital:
		// Unknown channels are a content error, not a fatal one.
		if !state.IsKnownVital(e.Vital) {
			return nil
		}
		if s.Vitals == nil {
			s.Vitals = types.Vitals{}
		}
		s.Vitals[e.Vital] = e.Value
		state.Log(s, fmt.Sprintf("%s set to %s", e.Vital, state.FormatVital(e.Value)))
		return []types.Event{{
			Type: types.EventVitalSet,
			Data: map[string]any{"vital": string(e.Vital), "value": e.Value},
		}}

	case types.AdjustRelationship:
		dim := e.Target
		if dim == "" {
			dim = types.DefaultDimension
		}
		v := state.AddRelationship(s, e.NPC, dim, e.Delta)
		state.Log(s, fmt.Sprintf("Relationship with %s (%s): %+d", e.NPC, dim, e.Delta))
		return []types.Event{{
			Type: types.EventRelationshipChanged,
			Data: map[string]any{"npc": e.NPC, "dimension": dim, "delta": e.Delta, "value": v},
		}}

	case types.AdjustStress:
		s.Stress += e.Delta
		state.Log(s, "Stress "+signed(e.Delta))
		return []types.Event{{
			Type: types.EventStressChanged,
			Data: map[string]any{"delta": e.Delta, "value": s.Stress},
		}}

	case types.AdvanceTime:
		if e.Minutes <= 0 {
			return nil
		}
		s.TimeElapsed += e.Minutes
		state.Log(s, fmt.Sprintf("%d minutes pass", e.Minutes))
		return []types.Event{{
			Type: types.EventTimeAdvanced,
			Data: map[string]any{"minutes": e.Minutes, "elapsed": s.TimeElapsed},
		}}

	case types.GameOver:
		state.Log(s, "GAME OVER")
		return event(types.EventGameOver, "description", e.Description)

	case types.Win:
		return event(types.EventWin, "description", e.Description)

	case types.CraftItem:
		state.Log(s, "Crafting attempted: "+e.Recipe)
		return event(types.EventCraftAttempted, "recipe", e.Recipe)

	default:
		// Narration-only (types.Note) or unknown: description logging only.
		return nil
	}
}

func event(typ, key string, value any) []types.Event {
	return []types.Event{{Type: typ, Data: map[string]any{key: value}}}
}

// removeAll removes every occurrence of item.
func removeAll(slice []string, item string) []string {
	out := slice[:0]
	for _, v := range slice {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}

// removeOne removes the first occurrence of item.
func removeOne(slice []string, item string) ([]string, bool) {
	for i, v := range slice {
		if v == item {
			return append(slice[:i], slice[i+1:]...), true
		}
	}
	return slice, false
}

func signed(v float64) string {
	if v >= 0 {
		return "+" + state.FormatVital(v)
	}
	return state.FormatVital(v)
}
