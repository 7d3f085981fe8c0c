package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

func smallRecipe() (*recipe.Recipe, []linkage.Link) {
	r := &recipe.Recipe{
		Name: "Scrambled Eggs",
		Ingredients: []recipe.Ingredient{
			{Quantity: "3", Name: "eggs"},
			{Quantity: "1", Measure: "tbsp", Name: "butter"},
			{Quantity: "1", Measure: "pinch", Name: "paprika"},
		},
		Instructions: []recipe.Instruction{
			{Step: 1, Description: "Beat the eggs."},
			{Step: 2, Description: "Melt the butter and pour in the eggs.", Duration: "2 min"},
		},
	}
	return r, linkage.Analyze(r.Ingredients, r.Instructions)
}

func TestToDOT_Basic(t *testing.T) {
	r, links := smallRecipe()
	dot := ToDOT(r, links, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"ing0" [label="eggs"]`,
		`"step0" [label="Step 1"`,
		`"ing0" -> "step0"`,
		`"ing1" -> "step1"`,
		`label="Scrambled Eggs"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if got := strings.Count(dot, " -> "); got != len(links) {
		t.Errorf("got %d edges, want %d", got, len(links))
	}
}

func TestToDOT_Detailed(t *testing.T) {
	r, links := smallRecipe()
	dot := ToDOT(r, links, Options{Detailed: true})

	if !strings.Contains(dot, `label="1 tbsp butter"`) {
		t.Error("detailed output missing quantity in ingredient label")
	}
	if !strings.Contains(dot, `(2 min)`) {
		t.Error("detailed output missing duration")
	}
	if !strings.Contains(dot, `label="0.90"`) {
		t.Error("detailed output missing edge confidence")
	}
}

func TestToDOT_Unused(t *testing.T) {
	r, links := smallRecipe()

	dot := ToDOT(r, links, Options{})
	if !strings.Contains(dot, "dashed") || !strings.Contains(dot, "lightgrey") {
		t.Error("unused ingredient should be dashed and grey")
	}

	dot = ToDOT(r, links, Options{HideUnused: true})
	if strings.Contains(dot, `"ing2"`) {
		t.Error("HideUnused should drop paprika")
	}
}

func TestToDOT_EdgeColor(t *testing.T) {
	r, _ := smallRecipe()
	links := []linkage.Link{{IngredientIndex: 0, InstructionIndex: 1, Confidence: 1}}
	dot := ToDOT(r, links, Options{})

	want := `color="` + flow.ColorForStep(2).Hex + `CC"`
	if !strings.Contains(dot, want) {
		t.Errorf("edge should carry step color with 0.8 alpha: missing %s", want)
	}
	if !strings.Contains(dot, "penwidth=4.00") {
		t.Error("full-confidence edge should be 4 wide")
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  string
	}{
		{0, "#007AFF00"},
		{0.4, "#007AFF66"},
		{1, "#007AFFFF"},
		{2, "#007AFFFF"},
	}
	for _, tt := range tests {
		if got := withAlpha("#007AFF", tt.alpha); got != tt.want {
			t.Errorf("withAlpha(%v) = %s, want %s", tt.alpha, got, tt.want)
		}
	}
}

func TestWrapLabel(t *testing.T) {
	got := wrapLabel("Melt the butter and pour in the eggs.", 16)
	want := "Melt the butter\nand pour in the\neggs."
	if got != want {
		t.Errorf("wrapLabel() = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	r, links := smallRecipe()
	svg, err := RenderSVG(context.Background(), ToDOT(r, links, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
