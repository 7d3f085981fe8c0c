// Package recipe defines the recipe data model consumed by the linkage and
// flow packages, plus decoders and stores that produce it.
//
// # Identity
//
// Ingredients and instructions are identified by their position in the
// recipe's slices. Links, rectangles and shapes refer to them by index, and
// those indices are only meaningful for the recipe snapshot they were
// computed from. Re-run the analysis after reordering or filtering.
//
// # Sources
//
// Recipes come from files ([Load], [Decode]), from the built-in [Sample], or
// from a [Source] such as [DirStore], [MemoryStore] or [MongoStore].
package recipe

import (
	"strings"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

// Ingredient is a single line of a recipe's ingredient list.
// Quantity and measure are kept as free text ("2¼", "cups").
type Ingredient struct {
	Quantity string `json:"quantity,omitempty" toml:"quantity" yaml:"quantity,omitempty" bson:"quantity,omitempty"`
	Measure  string `json:"measure,omitempty" toml:"measure" yaml:"measure,omitempty" bson:"measure,omitempty"`
	Name     string `json:"name" toml:"name" yaml:"name" bson:"name"`
}

// Display returns the ingredient as it is printed in a list, e.g. "2 cups flour".
func (i Ingredient) Display() string {
	return strings.Join(strings.Fields(i.Quantity+" "+i.Measure+" "+i.Name), " ")
}

// Instruction is a single numbered step.
//
// Step is the 1-based display number. It seeds colour assignment and does not
// have to equal the instruction's position in the list.
type Instruction struct {
	Step        int    `json:"step" toml:"step" yaml:"step" bson:"step"`
	Description string `json:"description" toml:"description" yaml:"description" bson:"description"`
	Duration    string `json:"duration,omitempty" toml:"duration" yaml:"duration,omitempty" bson:"duration,omitempty"`
}

// HasDuration reports whether the step carries a timing hint.
func (i Instruction) HasDuration() bool { return strings.TrimSpace(i.Duration) != "" }

// Recipe is a complete recipe.
type Recipe struct {
	ID           string        `json:"id" toml:"id" yaml:"id" bson:"_id"`
	Name         string        `json:"name" toml:"name" yaml:"name" bson:"name"`
	Description  string        `json:"description,omitempty" toml:"description" yaml:"description,omitempty" bson:"description,omitempty"`
	Servings     int           `json:"servings,omitempty" toml:"servings" yaml:"servings,omitempty" bson:"servings,omitempty"`
	Tags         []string      `json:"tags,omitempty" toml:"tags" yaml:"tags,omitempty" bson:"tags,omitempty"`
	Ingredients  []Ingredient  `json:"ingredients" toml:"ingredients" yaml:"ingredients" bson:"ingredients"`
	Instructions []Instruction `json:"instructions" toml:"instructions" yaml:"instructions" bson:"instructions"`
}

// Summary is a lightweight view of a recipe for listings.
type Summary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Ingredients  int      `json:"ingredients"`
	Instructions int      `json:"instructions"`
}

// Summarize returns the listing view of r.
func (r *Recipe) Summarize() Summary {
	return Summary{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Tags:         r.Tags,
		Ingredients:  len(r.Ingredients),
		Instructions: len(r.Instructions),
	}
}

// StepAt returns the step number of the instruction at index i.
// It panics if i is out of range: an index that does not belong to the
// recipe is a programming error.
func (r *Recipe) StepAt(i int) int {
	return r.Instructions[i].Step
}

// Validate checks the recipe for problems that would make its output
// meaningless. An empty recipe is valid and simply produces no links.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "recipe name cannot be empty")
	}
	if r.ID != "" {
		if err := errors.ValidateRecipeID(r.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "recipe %q", r.Name)
		}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "ingredient %d has no name", i)
		}
	}
	seen := make(map[int]int, len(r.Instructions))
	for i, ins := range r.Instructions {
		if ins.Step < 1 {
			return errors.New(errors.ErrCodeInvalidRecipe, "instruction %d has step %d (must be >= 1)", i, ins.Step)
		}
		if prev, dup := seen[ins.Step]; dup {
			return errors.New(errors.ErrCodeInvalidRecipe, "instructions %d and %d share step %d", prev, i, ins.Step)
		}
		seen[ins.Step] = i
		if strings.TrimSpace(ins.Description) == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "step %d has no description", ins.Step)
		}
	}
	return nil
}

// Slug derives an ID from a recipe name: "Chocolate Chip Cookies" → "chocolate-chip-cookies".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
