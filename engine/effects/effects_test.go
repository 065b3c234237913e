package effects

import (
	"testing"

	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

func testState() *types.PatientState {
	s := state.NewState()
	s.Vitals[types.VitalHeartRate] = 110
	s.Vitals[types.VitalSpO2] = 95
	return s
}

func lastLine(s *types.PatientState) string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Text
}

func TestApply_AddFlag(t *testing.T) {
	s := testState()
	evts := Apply(s, []types.Effect{types.AddFlag{Flag: "ASKED_ONSET"}})

	if !state.HasFlag(s, "ASKED_ONSET") {
		t.Fatal("expected flag set")
	}
	if lastLine(s) != "Flag added: ASKED_ONSET" {
		t.Errorf("history = %q", lastLine(s))
	}
	if len(evts) != 1 || evts[0].Type != types.EventFlagAdded {
		t.Errorf("expected flag_added event, got %v", evts)
	}
}

func TestApply_AddFlag_Idempotent(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AddFlag{Flag: "X"},
		types.AddFlag{Flag: "X"},
	})

	n := 0
	for _, f := range s.Flags {
		if f == "X" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected exactly one X, got %d in %v", n, s.Flags)
	}
	if len(s.History) != 1 {
		t.Errorf("second add should not log, history = %v", s.History)
	}
}

func TestApply_RemoveFlag(t *testing.T) {
	s := testState()
	s.Flags = []string{"A", "B"}
	Apply(s, []types.Effect{types.RemoveFlag{Flag: "A"}})

	if state.HasFlag(s, "A") {
		t.Error("expected A removed")
	}
	if !state.HasFlag(s, "B") {
		t.Error("expected B kept")
	}
}

func TestApply_AddItem_Stacks(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AddItem{Item: "gauze"},
		types.AddItem{Item: "gauze"},
	})
	if got := state.CountItem(s, "gauze"); got != 2 {
		t.Errorf("CountItem(gauze) = %d, want 2", got)
	}
}

func TestApply_RemoveItem_RemovesOneCopy(t *testing.T) {
	s := testState()
	s.Inventory = []string{"gauze", "tape", "gauze"}
	Apply(s, []types.Effect{types.RemoveItem{Item: "gauze"}})

	if got := state.CountItem(s, "gauze"); got != 1 {
		t.Errorf("CountItem(gauze) = %d, want 1", got)
	}
	if len(s.Inventory) != 2 {
		t.Errorf("inventory = %v", s.Inventory)
	}
}

func TestApply_RemoveItem_Missing(t *testing.T) {
	s := testState()
	evts := Apply(s, []types.Effect{types.RemoveItem{Item: "scalpel"}})
	if len(evts) != 0 || len(s.History) != 0 {
		t.Errorf("expected no-op, got events=%v history=%v", evts, s.History)
	}
}

func TestApply_SetVital_Absolute(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{types.SetVital{Vital: types.VitalHeartRate, Value: 88}})

	if got := s.Vitals[types.VitalHeartRate]; got != 88 {
		t.Errorf("heart_rate = %v, want 88", got)
	}
	if lastLine(s) != "heart_rate set to 88" {
		t.Errorf("history = %q", lastLine(s))
	}
}

func TestApply_SetVital_UnknownIsNoop(t *testing.T) {
	s := testState()
	evts := Apply(s, []types.Effect{types.SetVital{Vital: "glucose", Value: 5}})

	if _, ok := s.Vitals["glucose"]; ok {
		t.Error("unknown vital should not be written")
	}
	if len(evts) != 0 || len(s.History) != 0 {
		t.Errorf("expected silent no-op, got events=%v history=%v", evts, s.History)
	}
}

func TestApply_AdjustRelationship(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AdjustRelationship{NPC: "nurse_kim", Delta: 5},
		types.AdjustRelationship{NPC: "nurse_kim", Delta: -2},
		types.AdjustRelationship{NPC: "nurse_kim", Target: "personal", Delta: 4},
	})

	if got := state.Relationship(s, "nurse_kim", ""); got != 3 {
		t.Errorf("overall = %d, want 3", got)
	}
	if got := state.Relationship(s, "nurse_kim", "personal"); got != 4 {
		t.Errorf("personal = %d, want 4", got)
	}
	if s.History[1].Text != "Relationship with nurse_kim (overall): -2" {
		t.Errorf("history = %q", s.History[1].Text)
	}
}

func TestApply_AdvanceTime(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AdvanceTime{Minutes: 10},
		types.AdvanceTime{Minutes: -5},
	})
	if s.TimeElapsed != 10 {
		t.Errorf("TimeElapsed = %d, want 10", s.TimeElapsed)
	}
}

func TestApply_AdjustStress(t *testing.T) {
	s := testState()
	s.Stress = 30
	Apply(s, []types.Effect{types.AdjustStress{Delta: -12.5}})
	if s.Stress != 17.5 {
		t.Errorf("Stress = %v, want 17.5", s.Stress)
	}
	if lastLine(s) != "Stress -12.5" {
		t.Errorf("history = %q", lastLine(s))
	}
}

func TestApply_GameOverIsInformational(t *testing.T) {
	s := testState()
	evts := Apply(s, []types.Effect{
		types.GameOver{},
		types.AddFlag{Flag: "AFTER"},
	})

	if !state.HasFlag(s, "AFTER") {
		t.Error("effects after game over must still apply")
	}
	if s.History[0].Text != "GAME OVER" {
		t.Errorf("history = %v", s.History)
	}
	if evts[0].Type != types.EventGameOver {
		t.Errorf("expected game_over event first, got %v", evts)
	}
}

func TestApply_WinLogsOnlyDescription(t *testing.T) {
	s := testState()
	evts := Apply(s, []types.Effect{types.Win{}})
	if len(s.History) != 0 {
		t.Errorf("win without description should not log, got %v", s.History)
	}
	if len(evts) != 1 || evts[0].Type != types.EventWin {
		t.Errorf("expected win event, got %v", evts)
	}

	Apply(s, []types.Effect{types.Win{Note: types.Note{Description: "Patient discharged home."}}})
	if lastLine(s) != "Patient discharged home." {
		t.Errorf("history = %q", lastLine(s))
	}
}

func TestApply_CraftItemIsLogOnly(t *testing.T) {
	s := testState()
	s.Inventory = []string{"cardboard", "tape"}
	Apply(s, []types.Effect{types.CraftItem{Recipe: "splint"}})

	if len(s.Inventory) != 2 {
		t.Errorf("craft effect must not touch inventory: %v", s.Inventory)
	}
	if lastLine(s) != "Crafting attempted: splint" {
		t.Errorf("history = %q", lastLine(s))
	}
}

func TestApply_DescriptionAlwaysAppended(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AddFlag{Flag: "X", Note: types.Note{Description: "You note the onset."}},
		types.AddFlag{Flag: "X", Note: types.Note{Description: "Again."}},
		types.Note{Description: "The monitor beeps."},
	})

	want := []string{"Flag added: X", "You note the onset.", "Again.", "The monitor beeps."}
	if len(s.History) != len(want) {
		t.Fatalf("history = %v", s.History)
	}
	for i, w := range want {
		if s.History[i].Text != w {
			t.Errorf("history[%d] = %q, want %q", i, s.History[i].Text, w)
		}
	}
}

func TestApply_StampsCurrentTime(t *testing.T) {
	s := testState()
	Apply(s, []types.Effect{
		types.AddFlag{Flag: "A"},
		types.AdvanceTime{Minutes: 5},
		types.AddFlag{Flag: "B"},
	})

	if s.History[0].Minute != 0 {
		t.Errorf("first stamp = %d, want 0", s.History[0].Minute)
	}
	if last := s.History[len(s.History)-1]; last.Minute != 5 {
		t.Errorf("last stamp = %d, want 5", last.Minute)
	}
}

func TestApply_NilAndEmpty(t *testing.T) {
	s := testState()
	if evts := Apply(s, nil); len(evts) != 0 {
		t.Errorf("expected no events, got %v", evts)
	}
	if evts := Apply(s, []types.Effect{nil}); len(evts) != 0 {
		t.Errorf("expected nil effect skipped, got %v", evts)
	}
}
