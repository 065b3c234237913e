package engine

import (
	"strings"
	"testing"

	"github.com/nathoo/wardround/engine/crafting"
	"github.com/nathoo/wardround/engine/events"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// chestPainCase builds a small three-node case: an intake node, a history
// node gated on ASKED_QUALITY, and a terminal disposition.
func chestPainCase() *types.PatientCase {
	return &types.PatientCase{
		ID:          "chest_pain",
		Title:       "Chest Pain",
		Difficulty:  types.DifficultyMedium,
		StartNodeID: "intake",
		InitialState: types.PatientState{
			Vitals: types.Vitals{
				types.VitalHeartRate: 110,
				types.VitalSpO2:      94,
			},
			Flags:     []string{"TRIAGED"},
			Inventory: []string{"stethoscope"},
		},
		Nodes: map[string]types.NarrativeNode{
			"intake": {
				ID:   "intake",
				Text: "A 54-year-old man clutches his chest.",
				OnEnter: []types.Effect{
					types.Note{Description: "Patient arrives in bay 3."},
				},
				Choices: []types.Choice{
					{
						ID:         "ask_onset",
						Text:       "When did the pain start?",
						Category:   types.CategoryDialogue,
						Effects:    []types.Effect{types.AddFlag{Flag: "ASKED_ONSET"}},
						NextNodeID: "history",
						TimeCost:   2,
					},
				},
			},
			"history": {
				ID:   "history",
				Text: "He says it began an hour ago.",
				Choices: []types.Choice{
					{
						ID:       "ask_quality",
						Text:     "Describe the pain.",
						Category: types.CategoryDialogue,
						Effects: []types.Effect{
							types.AddFlag{Flag: "ASKED_QUALITY"},
							types.AdjustRelationship{NPC: "patient", Target: "trust", Delta: 2},
						},
						TimeCost: 3,
					},
					{
						ID:           "finish",
						Text:         "Admit to cardiology.",
						Category:     types.CategoryProcedure,
						Requirements: []types.Requirement{types.FlagRequirement{Flag: "ASKED_QUALITY"}},
						Effects:      []types.Effect{types.Win{Note: types.Note{Description: "Correct disposition."}}},
						NextNodeID:   "admitted",
					},
				},
			},
			"admitted": {
				ID:         "admitted",
				Text:       "The cath lab takes over.",
				IsTerminal: true,
			},
		},
	}
}

func TestNew_AppliesStartOnEnter(t *testing.T) {
	e := New(chestPainCase())

	if e.NodeID() != "intake" {
		t.Fatalf("expected intake, got %q", e.NodeID())
	}
	h := e.State().History
	if len(h) != 1 || h[0].Text != "Patient arrives in bay 3." {
		t.Errorf("expected on-enter note in history, got %+v", h)
	}
	if got := events.EnteredNodes(e.StartEvents()); len(got) != 1 || got[0] != "intake" {
		t.Errorf("expected node_entered for intake, got %v", got)
	}
}

func TestNew_DoesNotAliasInitialState(t *testing.T) {
	c := chestPainCase()
	first := New(c)
	first.MakeChoice("ask_onset")
	first.MakeChoice("ask_quality")
	first.State().Vitals[types.VitalHeartRate] = 180
	first.State().Inventory[0] = "scalpel"

	if c.InitialState.Vitals[types.VitalHeartRate] != 110 {
		t.Errorf("template vitals mutated: %v", c.InitialState.Vitals)
	}
	if len(c.InitialState.Flags) != 1 || c.InitialState.Inventory[0] != "stethoscope" {
		t.Errorf("template collections mutated: %+v", c.InitialState)
	}

	second := New(c)
	s := second.State()
	if s.Vitals[types.VitalHeartRate] != 110 || s.Vitals[types.VitalSpO2] != 94 {
		t.Errorf("second session vitals not pristine: %v", s.Vitals)
	}
	if state.HasFlag(s, "ASKED_ONSET") || !state.HasItem(s, "stethoscope") {
		t.Errorf("second session not pristine: %+v", s)
	}
}

func TestMakeChoice_NotFoundLeavesStateUnchanged(t *testing.T) {
	e := New(chestPainCase())
	before := state.Clone(*e.State())

	r := e.MakeChoice("does_not_exist")
	if r.Success {
		t.Fatal("expected failure")
	}
	if r.Code != types.CodeNotFound {
		t.Errorf("expected not_found, got %q", r.Code)
	}
	if e.NodeID() != "intake" {
		t.Errorf("node changed to %q", e.NodeID())
	}
	if len(e.State().History) != len(before.History) || len(e.State().Flags) != len(before.Flags) {
		t.Errorf("state changed: %+v", e.State())
	}
	if e.State().TimeElapsed != before.TimeElapsed {
		t.Errorf("time changed: %d", e.State().TimeElapsed)
	}
}

func TestMakeChoice_NoCurrentNode(t *testing.T) {
	c := chestPainCase()
	c.StartNodeID = "missing"
	e := New(c)

	if _, ok := e.CurrentNode(); ok {
		t.Fatal("expected no current node")
	}
	if got := e.AvailableChoices(); len(got) != 0 {
		t.Errorf("expected no choices, got %d", len(got))
	}
	r := e.MakeChoice("ask_onset")
	if r.Success || r.Code != types.CodeNoCurrentNode {
		t.Errorf("expected no_current_node failure, got %+v", r)
	}
}

func TestMakeChoice_RequirementRechecked(t *testing.T) {
	e := New(chestPainCase())
	e.MakeChoice("ask_onset")

	r := e.MakeChoice("finish")
	if r.Success {
		t.Fatal("expected finish to fail before ASKED_QUALITY")
	}
	if r.Code != types.CodeRequirementNotMet {
		t.Errorf("expected requirement_not_met, got %q", r.Code)
	}
	if e.NodeID() != "history" {
		t.Errorf("node changed to %q", e.NodeID())
	}
}

func TestAvailableChoices_FlagGate(t *testing.T) {
	e := New(chestPainCase())
	e.MakeChoice("ask_onset")

	if hasChoice(e.AvailableChoices(), "finish") {
		t.Fatal("finish should be hidden before ASKED_QUALITY")
	}
	e.MakeChoice("ask_quality")
	got := e.AvailableChoices()
	if !hasChoice(got, "finish") {
		t.Fatal("finish should be offered after ASKED_QUALITY")
	}
	if got[0].ID != "ask_quality" || got[1].ID != "finish" {
		t.Errorf("authored order not preserved: %v", got)
	}
}

func TestMakeChoice_EndToEnd(t *testing.T) {
	e := New(chestPainCase())

	if r := e.MakeChoice("ask_onset"); !r.Success {
		t.Fatalf("ask_onset failed: %s", r.Message)
	}
	if r := e.MakeChoice("finish"); r.Success {
		t.Fatal("finish should fail without ASKED_QUALITY")
	}
	if r := e.MakeChoice("ask_quality"); !r.Success {
		t.Fatalf("ask_quality failed: %s", r.Message)
	}
	if !hasChoice(e.AvailableChoices(), "finish") {
		t.Fatal("finish not offered")
	}

	r := e.MakeChoice("finish")
	if !r.Success {
		t.Fatalf("finish failed: %s", r.Message)
	}
	if !e.IsTerminal() {
		t.Errorf("expected terminal node, at %q", e.NodeID())
	}
	if events.OutcomeOf(r.Events) != events.OutcomeWin {
		t.Errorf("expected win outcome, got %v", events.OutcomeOf(r.Events))
	}
	if len(e.AvailableChoices()) != 0 {
		t.Errorf("terminal node should offer nothing")
	}
}

func TestMakeChoice_TimeCostAfterEffects(t *testing.T) {
	c := chestPainCase()
	intake := c.Nodes["intake"]
	intake.Choices[0].Effects = []types.Effect{
		types.AddFlag{Flag: "ASKED_ONSET"},
		types.AdvanceTime{Minutes: 5},
		types.Note{Description: "Clock check."},
	}
	c.Nodes["intake"] = intake

	e := New(c)
	e.MakeChoice("ask_onset")

	if e.State().TimeElapsed != 7 {
		t.Fatalf("expected 7 minutes elapsed, got %d", e.State().TimeElapsed)
	}
	var stamp = -1
	for _, h := range e.State().History {
		if h.Text == "Clock check." {
			stamp = h.Minute
		}
	}
	if stamp != 5 {
		t.Errorf("expected effect logged at T+5 (before time cost), got %d", stamp)
	}
}

func TestMakeChoice_TimeElapsedSumsCosts(t *testing.T) {
	e := New(chestPainCase())
	e.MakeChoice("ask_onset")   // 2
	e.MakeChoice("ask_quality") // 3
	e.MakeChoice("ask_quality") // 3
	e.MakeChoice("finish")      // 0

	if got := e.State().TimeElapsed; got != 8 {
		t.Errorf("TimeElapsed = %d, want 8", got)
	}
}

func TestMakeChoice_FlagIdempotentAcrossChoices(t *testing.T) {
	e := New(chestPainCase())
	e.MakeChoice("ask_onset")
	e.MakeChoice("ask_quality")
	e.MakeChoice("ask_quality")

	n := 0
	for _, f := range e.State().Flags {
		if f == "ASKED_QUALITY" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected one ASKED_QUALITY, got %d", n)
	}
	if got := state.Relationship(e.State(), "patient", "trust"); got != 4 {
		t.Errorf("trust = %d, want 4", got)
	}
}

func TestHistory_GrowsAndStaysOrdered(t *testing.T) {
	e := New(chestPainCase())
	prev := len(e.State().History)

	for _, id := range []string{"ask_onset", "ask_quality", "ask_quality", "finish"} {
		if r := e.MakeChoice(id); !r.Success {
			t.Fatalf("%s failed: %s", id, r.Message)
		}
		h := e.State().History
		if len(h) <= prev {
			t.Fatalf("history did not grow after %s", id)
		}
		prev = len(h)
	}

	h := e.State().History
	for i := 1; i < len(h); i++ {
		if h[i].Minute < h[i-1].Minute {
			t.Fatalf("history out of order at %d: %+v", i, h)
		}
	}
	if !strings.HasPrefix(h[1].Text, "> ") {
		t.Errorf("expected choice echo, got %q", h[1].Text)
	}
}

func TestRestore(t *testing.T) {
	e := New(chestPainCase())
	e.MakeChoice("ask_onset")
	saved := state.Clone(*e.State())

	other := New(chestPainCase())
	other.Restore("history", *saved)
	saved.Flags = append(saved.Flags, "LEAKED")

	if other.NodeID() != "history" {
		t.Errorf("node = %q", other.NodeID())
	}
	if !state.HasFlag(other.State(), "ASKED_ONSET") {
		t.Error("restored state missing ASKED_ONSET")
	}
	if state.HasFlag(other.State(), "LEAKED") {
		t.Error("restored state aliases the input")
	}
}

func TestCraft(t *testing.T) {
	book := crafting.NewBook([]types.Recipe{
		{ID: "splint", Ingredients: []string{"cardboard", "tape"}, Result: "splint"},
	})
	c := chestPainCase()
	c.InitialState.Inventory = []string{"cardboard", "tape", "tape"}
	e := New(c, WithRecipes(book))

	r := e.Craft("splint")
	if !r.Success {
		t.Fatalf("craft failed: %s", r.Message)
	}
	inv := e.State().Inventory
	if state.HasItem(e.State(), "cardboard") || state.CountItem(e.State(), "tape") != 1 {
		t.Errorf("ingredients not consumed: %v", inv)
	}
	if !state.HasItem(e.State(), "splint") {
		t.Errorf("result not added: %v", inv)
	}
	if !events.Has(r.Events, types.EventItemCrafted) {
		t.Error("expected item_crafted event")
	}

	r = e.Craft("splint")
	if r.Success || r.Code != types.CodeMissingIngredients {
		t.Errorf("expected missing_ingredients, got %+v", r)
	}
	if r := e.Craft("nope"); r.Code != types.CodeUnknownRecipe {
		t.Errorf("expected unknown_recipe, got %q", r.Code)
	}
}

func TestCraft_RepeatedIngredient(t *testing.T) {
	book := crafting.NewBook([]types.Recipe{
		{ID: "thick_pad", Ingredients: []string{"gauze", "gauze"}, Result: "thick_pad"},
	})
	c := chestPainCase()
	c.InitialState.Inventory = []string{"gauze"}
	e := New(c, WithRecipes(book))
	before := len(e.State().History)

	r := e.Craft("thick_pad")
	if r.Success || r.Code != types.CodeMissingIngredients {
		t.Fatalf("expected missing_ingredients with one gauze, got %+v", r)
	}
	if state.CountItem(e.State(), "gauze") != 1 || state.HasItem(e.State(), "thick_pad") {
		t.Errorf("inventory changed on failure: %v", e.State().Inventory)
	}
	if len(e.State().History) != before {
		t.Error("failed craft should not log")
	}

	e.State().Inventory = append(e.State().Inventory, "gauze")
	if r := e.Craft("thick_pad"); !r.Success {
		t.Fatalf("craft with two gauze failed: %s", r.Message)
	}
	if state.HasItem(e.State(), "gauze") || !state.HasItem(e.State(), "thick_pad") {
		t.Errorf("unexpected inventory: %v", e.State().Inventory)
	}
}

func hasChoice(cs []types.Choice, id string) bool {
	for _, c := range cs {
		if c.ID == id {
			return true
		}
	}
	return false
}
