package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/wardround/types"
)

// recipeFile is the on-disk shape of recipes.yaml.
type recipeFile struct {
	Recipes []types.Recipe `yaml:"recipes"`
}

// LoadRecipes reads a YAML recipe table. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func LoadRecipes(path string) ([]types.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	return ParseRecipes(data)
}

// ParseRecipes decodes and checks a YAML recipe table.
func ParseRecipes(data []byte) ([]types.Recipe, error) {
	var f recipeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}

	seen := map[string]bool{}
	for i, r := range f.Recipes {
		switch {
		case r.ID == "":
			return nil, fmt.Errorf("recipe %d: id is required", i+1)
		case seen[r.ID]:
			return nil, fmt.Errorf("recipe %q: duplicate id", r.ID)
		case r.Result == "":
			return nil, fmt.Errorf("recipe %q: result is required", r.ID)
		case len(r.Ingredients) == 0:
			return nil, fmt.Errorf("recipe %q: at least one ingredient is required", r.ID)
		}
		seen[r.ID] = true
	}
	return f.Recipes, nil
}
