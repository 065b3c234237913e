package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/wardround/engine/crafting"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validDifficulties = map[types.Difficulty]bool{
	types.DifficultyEasy:      true,
	types.DifficultyMedium:    true,
	types.DifficultyHard:      true,
	types.DifficultyLegendary: true,
}

var validCategories = map[types.ChoiceCategory]bool{
	"":                        true,
	types.CategoryDiagnostic:  true,
	types.CategoryDialogue:    true,
	types.CategoryExamination: true,
	types.CategoryProcedure:   true,
}

var validOperators = map[string]bool{
	"<": true, "<=": true, "==": true, "!=": true, ">=": true, ">": true,
}

// validate checks the compiled library for referential integrity. Warnings
// are stored on the library; errors fail the load.
func validate(lib *types.Library) error {
	ve := &ValidationError{}

	book := crafting.Default()
	if len(lib.Recipes) > 0 {
		book = crafting.NewBook(lib.Recipes)
	}

	for _, id := range lib.Order {
		validateCase(lib.Cases[id], book, ve)
	}

	lib.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateCase(c *types.PatientCase, book *crafting.Book, ve *ValidationError) {
	errorf := func(format string, args ...any) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("case %q: ", c.ID)+fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("case %q: ", c.ID)+fmt.Sprintf(format, args...))
	}

	if c.Title == "" {
		errorf("title is required")
	}
	if !validDifficulties[c.Difficulty] {
		errorf("unknown difficulty %q", c.Difficulty)
	}

	// Start node exists.
	if c.StartNodeID == "" {
		errorf("start is required")
	} else if _, ok := c.Nodes[c.StartNodeID]; !ok {
		errorf("start node %q not found in defined nodes", c.StartNodeID)
	}

	for v := range c.InitialState.Vitals {
		if !state.IsKnownVital(v) {
			errorf("initial vitals use unknown vital %q", v)
		}
	}

	for _, nodeID := range sortedNodeIDs(c) {
		n := c.Nodes[nodeID]
		validateEffects(n.OnEnter, book, func(msg string) { errorf("node %q on_enter: %s", nodeID, msg) },
			func(msg string) { warnf("node %q on_enter: %s", nodeID, msg) })

		if n.IsTerminal && len(n.Choices) > 0 {
			warnf("terminal node %q offers %d choice(s)", nodeID, len(n.Choices))
		}
		if !n.IsTerminal && len(n.Choices) == 0 {
			warnf("node %q is a dead end: no choices and not terminal", nodeID)
		}

		ids := map[string]bool{}
		for _, ch := range n.Choices {
			where := fmt.Sprintf("node %q choice %q", nodeID, ch.ID)
			if ids[ch.ID] {
				errorf("node %q has duplicate choice ID %q", nodeID, ch.ID)
			}
			ids[ch.ID] = true

			if ch.Text == "" {
				errorf("%s: text is required", where)
			}
			if !validCategories[ch.Category] {
				errorf("%s: unknown category %q", where, ch.Category)
			}
			if ch.TimeCost < 0 {
				errorf("%s: negative time cost %d", where, ch.TimeCost)
			}
			if ch.NextNodeID != "" {
				if _, ok := c.Nodes[ch.NextNodeID]; !ok {
					errorf("%s: next points to undefined node %q", where, ch.NextNodeID)
				}
			}
			validateRequirements(ch.Requirements, func(msg string) { errorf("%s: %s", where, msg) })
			validateEffects(ch.Effects, book, func(msg string) { errorf("%s: %s", where, msg) },
				func(msg string) { warnf("%s: %s", where, msg) })
		}
	}

	for _, id := range unreachable(c) {
		warnf("node %q is unreachable from %q", id, c.StartNodeID)
	}
}

func validateRequirements(reqs []types.Requirement, errorf func(string)) {
	for _, r := range reqs {
		switch r := r.(type) {
		case types.FlagRequirement:
			if r.Flag == "" {
				errorf("flag requirement without a flag")
			}
		case types.ItemRequirement:
			if r.Item == "" {
				errorf("item requirement without an item")
			}
		case types.VitalRequirement:
			if !state.IsKnownVital(r.Vital) {
				errorf(fmt.Sprintf("requirement uses unknown vital %q", r.Vital))
			}
			if !validOperators[r.Operator] {
				errorf(fmt.Sprintf("requirement uses unknown operator %q", r.Operator))
			}
		case types.SkillRequirement:
			if !validOperators[r.Operator] {
				errorf(fmt.Sprintf("requirement uses unknown operator %q", r.Operator))
			}
		}
	}
}

func validateEffects(effs []types.Effect, book *crafting.Book, errorf, warnf func(string)) {
	for _, e := range effs {
		switch e := e.(type) {
		case types.SetVital:
			if !state.IsKnownVital(e.Vital) {
				errorf(fmt.Sprintf("effect set_vital uses unknown vital %q", e.Vital))
			}
		case types.AdjustRelationship:
			if e.NPC == "" {
				errorf("effect relationship without an npc")
			}
		case types.AdvanceTime:
			if e.Minutes <= 0 {
				warnf(fmt.Sprintf("effect advance_time with %d minutes has no effect", e.Minutes))
			}
		case types.CraftItem:
			if _, ok := book.Recipe(e.Recipe); !ok {
				warnf(fmt.Sprintf("effect craft_item references unknown recipe %q", e.Recipe))
			}
		}
	}
}

// unreachable returns node IDs that no path from the start node reaches.
func unreachable(c *types.PatientCase) []string {
	if _, ok := c.Nodes[c.StartNodeID]; !ok {
		return nil
	}
	seen := map[string]bool{c.StartNodeID: true}
	queue := []string{c.StartNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, ch := range c.Nodes[id].Choices {
			if ch.NextNodeID != "" && !seen[ch.NextNodeID] {
				if _, ok := c.Nodes[ch.NextNodeID]; ok {
					seen[ch.NextNodeID] = true
					queue = append(queue, ch.NextNodeID)
				}
			}
		}
	}
	var out []string
	for _, id := range sortedNodeIDs(c) {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func sortedNodeIDs(c *types.PatientCase) []string {
	ids := make([]string, 0, len(c.Nodes))
	for id := range c.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
