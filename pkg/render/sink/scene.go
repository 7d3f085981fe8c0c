package sink

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// Scene is everything a sink needs to draw one recipe: the recipe itself,
// its computed layout, the accepted links and the ribbons built from them.
type Scene struct {
	Recipe *recipe.Recipe
	Layout layout.Layout
	Links  []linkage.Link
	Shapes []flow.Shape
}

// IngredientColor returns the color of the ingredient's strongest link.
// Unused ingredients report false.
func (s Scene) IngredientColor(i int) (flow.Color, bool) {
	l, ok := linkage.Strongest(s.Links, i)
	if !ok {
		return flow.Color{}, false
	}
	return flow.ColorForStep(s.Recipe.StepAt(l.InstructionIndex)), true
}

// InstructionColor returns the color of an instruction row.
func (s Scene) InstructionColor(i int) flow.Color {
	return flow.ColorForStep(s.Recipe.StepAt(i))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func truncate(s string, maxChars int) string {
	maxChars = max(3, maxChars)
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-2]) + ".."
}
