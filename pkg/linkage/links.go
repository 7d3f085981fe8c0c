package linkage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// ForInstruction returns the links that end at the given instruction, in input order.
func ForInstruction(links []Link, instructionIndex int) []Link {
	var out []Link
	for _, l := range links {
		if l.InstructionIndex == instructionIndex {
			out = append(out, l)
		}
	}
	return out
}

// ForIngredient returns the links that start at the given ingredient, in input order.
func ForIngredient(links []Link, ingredientIndex int) []Link {
	var out []Link
	for _, l := range links {
		if l.IngredientIndex == ingredientIndex {
			out = append(out, l)
		}
	}
	return out
}

// Strongest returns the highest-confidence link for an ingredient. Ties go to
// the link that comes first, which for Analyze output is the earliest step.
func Strongest(links []Link, ingredientIndex int) (Link, bool) {
	var (
		best  Link
		found bool
	)
	for _, l := range links {
		if l.IngredientIndex != ingredientIndex {
			continue
		}
		if !found || l.Confidence > best.Confidence {
			best, found = l, true
		}
	}
	return best, found
}

// Unused returns the indices of ingredients that no link references.
func Unused(links []Link, ingredientCount int) []int {
	used := make([]bool, ingredientCount)
	for _, l := range links {
		if l.IngredientIndex >= 0 && l.IngredientIndex < ingredientCount {
			used[l.IngredientIndex] = true
		}
	}
	var out []int
	for i, u := range used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}

// Fingerprint hashes the inputs of an analysis run. Two runs with the same
// fingerprint produce the same links, so it is usable as a cache key for
// anything derived from them. It fails only for configs that cannot be
// encoded, such as NaN weights, which [Config.Validate] also rejects.
func Fingerprint(ingredients []recipe.Ingredient, instructions []recipe.Instruction, cfg Config) (string, error) {
	data, err := json.Marshal(struct {
		Ingredients  []recipe.Ingredient  `json:"i"`
		Instructions []recipe.Instruction `json:"s"`
		Config       Config               `json:"c"`
	}{ingredients, instructions, cfg})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "fingerprint linkage inputs: %v", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
