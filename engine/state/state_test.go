package state

import (
	"testing"

	"github.com/nathoo/wardround/types"
)

func testState() types.PatientState {
	return types.PatientState{
		Vitals: types.Vitals{
			types.VitalHeartRate: 110,
			types.VitalSpO2:      94,
		},
		Flags:     []string{"ARRIVED"},
		Inventory: []string{"stethoscope", "gauze", "gauze"},
		History:   []types.LogEntry{{Minute: 0, Text: "Patient arrives."}},
		Stress:    20,
		Relationships: map[string]map[string]int{
			"nurse_kim": {"professional": 3},
		},
	}
}

func TestNewState_AllocatesCollections(t *testing.T) {
	s := NewState()
	if s.Vitals == nil || s.Flags == nil || s.Inventory == nil || s.History == nil || s.Relationships == nil {
		t.Fatalf("expected all collections allocated, got %+v", s)
	}
	if s.TimeElapsed != 0 {
		t.Errorf("expected zero elapsed time, got %d", s.TimeElapsed)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	orig := testState()
	c := Clone(orig)

	c.Vitals[types.VitalHeartRate] = 150
	c.Flags = append(c.Flags, "NEW")
	c.Inventory[0] = "scalpel"
	c.Relationships["nurse_kim"]["professional"] = 99
	c.History[0].Text = "changed"

	if orig.Vitals[types.VitalHeartRate] != 110 {
		t.Errorf("vitals aliased: %v", orig.Vitals)
	}
	if len(orig.Flags) != 1 {
		t.Errorf("flags aliased: %v", orig.Flags)
	}
	if orig.Inventory[0] != "stethoscope" {
		t.Errorf("inventory aliased: %v", orig.Inventory)
	}
	if orig.Relationships["nurse_kim"]["professional"] != 3 {
		t.Errorf("relationships aliased: %v", orig.Relationships)
	}
	if orig.History[0].Text != "Patient arrives." {
		t.Errorf("history aliased: %v", orig.History)
	}
}

func TestClone_NilCollections(t *testing.T) {
	c := Clone(types.PatientState{})
	if c.Vitals == nil || c.Flags == nil || c.Relationships == nil {
		t.Fatalf("expected allocated collections from zero state, got %+v", c)
	}
}

func TestHasFlag(t *testing.T) {
	s := testState()
	if !HasFlag(&s, "ARRIVED") {
		t.Error("expected ARRIVED set")
	}
	if HasFlag(&s, "DISCHARGED") {
		t.Error("expected DISCHARGED unset")
	}
}

func TestHasItemAndCount(t *testing.T) {
	s := testState()
	if !HasItem(&s, "gauze") {
		t.Error("expected gauze present")
	}
	if HasItem(&s, "scalpel") {
		t.Error("expected scalpel absent")
	}
	if got := CountItem(&s, "gauze"); got != 2 {
		t.Errorf("CountItem(gauze) = %d, want 2", got)
	}
}

func TestRelationship_Defaults(t *testing.T) {
	s := testState()
	if got := Relationship(&s, "nurse_kim", "professional"); got != 3 {
		t.Errorf("professional = %d, want 3", got)
	}
	if got := Relationship(&s, "nurse_kim", "personal"); got != 0 {
		t.Errorf("personal = %d, want 0", got)
	}
	if got := Relationship(&s, "dr_osei", ""); got != 0 {
		t.Errorf("unknown npc = %d, want 0", got)
	}
}

func TestAddRelationship(t *testing.T) {
	s := NewState()
	if got := AddRelationship(s, "dr_osei", "", 5); got != 5 {
		t.Errorf("first add = %d, want 5", got)
	}
	if got := AddRelationship(s, "dr_osei", "", -7); got != -2 {
		t.Errorf("second add = %d, want -2", got)
	}
	if got := Relationship(s, "dr_osei", types.DefaultDimension); got != -2 {
		t.Errorf("overall = %d, want -2", got)
	}
}

func TestLog_StampsElapsedTime(t *testing.T) {
	s := NewState()
	Log(s, "first")
	s.TimeElapsed = 15
	Log(s, "second")

	if len(s.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.History))
	}
	if s.History[0].Minute != 0 || s.History[1].Minute != 15 {
		t.Errorf("unexpected stamps: %+v", s.History)
	}
	if got := FormatEntry(s.History[1]); got != "[T+15m] second" {
		t.Errorf("FormatEntry = %q", got)
	}
}

func TestIsKnownVital(t *testing.T) {
	tests := []struct {
		v    types.Vital
		want bool
	}{
		{types.VitalHeartRate, true},
		{types.VitalEtCO2, true},
		{"glucose", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsKnownVital(tt.v); got != tt.want {
			t.Errorf("IsKnownVital(%q) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestFormatVital(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{110, "110"},
		{37.5, "37.5"},
		{-5, "-5"},
	}
	for _, tt := range tests {
		if got := FormatVital(tt.v); got != tt.want {
			t.Errorf("FormatVital(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
