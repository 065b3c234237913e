package crafting

import (
	"testing"

	"github.com/nathoo/wardround/types"
)

func TestCanCraft(t *testing.T) {
	b := Default()

	tests := []struct {
		name      string
		recipe    string
		inventory []string
		want      bool
	}{
		{"all ingredients", "improvised_splint", []string{"cardboard", "medical_tape"}, true},
		{"extra items", "improvised_splint", []string{"gauze", "cardboard", "medical_tape"}, true},
		{"missing one", "improvised_splint", []string{"cardboard"}, false},
		{"empty inventory", "tourniquet", nil, false},
		{"unknown recipe", "defibrillator", []string{"cardboard"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CanCraft(tt.recipe, tt.inventory); got != tt.want {
				t.Errorf("CanCraft(%q, %v) = %v, want %v", tt.recipe, tt.inventory, got, tt.want)
			}
		})
	}
}

func TestCraft_Success(t *testing.T) {
	b := Default()
	inv := []string{"cardboard", "medical_tape"}

	out := b.Craft("improvised_splint", inv)
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Item != "splint" {
		t.Errorf("Item = %q, want splint", out.Item)
	}
	if out.Message == "" {
		t.Error("expected description message")
	}
	if len(inv) != 2 || inv[0] != "cardboard" {
		t.Errorf("Craft must not mutate inventory: %v", inv)
	}
}

func TestCraft_Failures(t *testing.T) {
	b := Default()

	out := b.Craft("nope", nil)
	if out.Success || out.Code != types.CodeUnknownRecipe {
		t.Errorf("unknown recipe: got %+v", out)
	}

	out = b.Craft("pressure_dressing", []string{"gauze"})
	if out.Success || out.Code != types.CodeMissingIngredients {
		t.Errorf("missing ingredients: got %+v", out)
	}
}

func TestNewBook_OrderAndOverride(t *testing.T) {
	b := NewBook([]types.Recipe{
		{ID: "a", Ingredients: []string{"x"}, Result: "a1"},
		{ID: "b", Ingredients: []string{"y"}, Result: "b1"},
		{ID: "a", Ingredients: []string{"z"}, Result: "a2"},
	})

	rs := b.Recipes()
	if len(rs) != 2 || rs[0].ID != "a" || rs[1].ID != "b" {
		t.Fatalf("Recipes() = %+v", rs)
	}
	if r, _ := b.Recipe("a"); r.Result != "a2" {
		t.Errorf("expected later definition to win, got %+v", r)
	}
	out := b.Craft("a", []string{"z"})
	if !out.Success || out.Message != "Crafted a2." {
		t.Errorf("default message: got %+v", out)
	}
}
