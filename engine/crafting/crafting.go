// Package crafting validates and resolves item-combination recipes.
// It never mutates an inventory; consuming ingredients is the caller's job.
package crafting

import (
	"fmt"

	"github.com/nathoo/wardround/types"
)

// DefaultRecipes is the built-in field-improvisation table.
var DefaultRecipes = []types.Recipe{
	{
		ID:          "improvised_splint",
		Ingredients: []string{"cardboard", "medical_tape"},
		Result:      "splint",
		Description: "You pad the cardboard and tape it into a rigid splint.",
	},
	{
		ID:          "pressure_dressing",
		Ingredients: []string{"gauze", "elastic_bandage"},
		Result:      "pressure_dressing",
		Description: "You fold the gauze into a pad and wrap it firmly.",
	},
	{
		ID:          "tourniquet",
		Ingredients: []string{"cravat", "windlass_stick"},
		Result:      "tourniquet",
		Description: "You twist the stick through the cravat to make a windlass tourniquet.",
	},
}

// Outcome is the result of a craft attempt.
type Outcome struct {
	Success bool
	Item    string
	Message string
	Code    types.ResultCode
}

// Book is a static recipe table keyed by recipe ID.
type Book struct {
	recipes map[string]types.Recipe
	order   []string
}

// NewBook builds a recipe book. Later duplicates replace earlier ones.
func NewBook(recipes []types.Recipe) *Book {
	b := &Book{recipes: map[string]types.Recipe{}}
	for _, r := range recipes {
		if _, exists := b.recipes[r.ID]; !exists {
			b.order = append(b.order, r.ID)
		}
		b.recipes[r.ID] = r
	}
	return b
}

// Default returns a book of DefaultRecipes.
func Default() *Book {
	return NewBook(DefaultRecipes)
}

// Recipe returns the recipe with the given ID.
func (b *Book) Recipe(id string) (types.Recipe, bool) {
	r, ok := b.recipes[id]
	return r, ok
}

// Recipes returns all recipes in definition order.
func (b *Book) Recipes() []types.Recipe {
	out := make([]types.Recipe, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.recipes[id])
	}
	return out
}

// CanCraft reports whether every ingredient is present in inventory.
// Presence only: one copy satisfies any number of uses.
func (b *Book) CanCraft(recipeID string, inventory []string) bool {
	r, ok := b.recipes[recipeID]
	if !ok {
		return false
	}
	return len(missing(r, inventory)) == 0
}

// Craft re-validates the recipe and returns the resulting item.
func (b *Book) Craft(recipeID string, inventory []string) Outcome {
	r, ok := b.recipes[recipeID]
	if !ok {
		return Outcome{
			Message: fmt.Sprintf("Unknown recipe %q.", recipeID),
			Code:    types.CodeUnknownRecipe,
		}
	}
	if m := missing(r, inventory); len(m) > 0 {
		return Outcome{
			Message: fmt.Sprintf("Missing ingredients for %s: %v.", recipeID, m),
			Code:    types.CodeMissingIngredients,
		}
	}
	msg := r.Description
	if msg == "" {
		msg = fmt.Sprintf("Crafted %s.", r.Result)
	}
	return Outcome{Success: true, Item: r.Result, Message: msg}
}

func missing(r types.Recipe, inventory []string) []string {
	have := make(map[string]bool, len(inventory))
	for _, id := range inventory {
		have[id] = true
	}
	var out []string
	for _, ing := range r.Ingredients {
		if !have[ing] {
			out = append(out, ing)
		}
	}
	return out
}
