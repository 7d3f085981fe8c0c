package flow

import (
	"fmt"

	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// DefaultApexLength is the curve bulge used by [BuildShapes].
const DefaultApexLength = 24.0

// Shape is a filled ribbon for one link.
type Shape struct {
	Link    linkage.Link
	Step    int
	Path    *Path
	Color   Color
	Opacity float64
}

// Builder converts links into ribbons.
type Builder struct {
	// ApexLength is how far each curve's control point sits from the chord
	// midpoint. Negative values invert the bulge.
	ApexLength float64
}

// NewBuilder returns a builder using DefaultApexLength.
func NewBuilder() Builder { return Builder{ApexLength: DefaultApexLength} }

// BuildShapes builds ribbons with the default apex length.
func BuildShapes(links []linkage.Link, ingredients []recipe.Ingredient, instructions []recipe.Instruction, ingredientRects, instructionRects map[int]Rect) []Shape {
	return NewBuilder().Build(links, ingredients, instructions, ingredientRects, instructionRects)
}

// Build returns one shape per link whose ingredient and instruction rectangles
// are both present, in link order. instructions supplies the step number that
// picks each ribbon's color.
//
// Build panics if a link's ingredient index is outside ingredients or its
// instruction index is outside instructions.
func (b Builder) Build(links []linkage.Link, ingredients []recipe.Ingredient, instructions []recipe.Instruction, ingredientRects, instructionRects map[int]Rect) []Shape {
	shapes := make([]Shape, 0, len(links))
	for _, l := range links {
		if l.IngredientIndex < 0 || l.IngredientIndex >= len(ingredients) {
			panic(fmt.Sprintf("flow: link references ingredient %d, have %d", l.IngredientIndex, len(ingredients)))
		}
		if l.InstructionIndex < 0 || l.InstructionIndex >= len(instructions) {
			panic(fmt.Sprintf("flow: link references instruction %d, have %d", l.InstructionIndex, len(instructions)))
		}
		ing, ok := ingredientRects[l.IngredientIndex]
		if !ok {
			continue
		}
		ins, ok := instructionRects[l.InstructionIndex]
		if !ok {
			continue
		}

		step := instructions[l.InstructionIndex].Step
		shapes = append(shapes, Shape{
			Link:    l,
			Step:    step,
			Path:    b.Ribbon(ing, ins),
			Color:   ColorForStep(step),
			Opacity: Opacity(l.Confidence),
		})
	}
	return shapes
}

// Ribbon returns the closed outline between an ingredient rectangle and an
// instruction rectangle.
//
// Each long edge is a single quadratic whose control point is the chord
// midpoint pushed out by ApexLength (up for the top edge, down for the
// bottom). The path stores it subdivided at t=0.5, so the two recorded
// segments carry the halved control points of that one curve and meet
// without a corner.
func (b Builder) Ribbon(ingredient, instruction Rect) *Path {
	topStart, topEnd := ingredient.TopRight(), instruction.TopLeft()
	bottomStart, bottomEnd := ingredient.BottomRight(), instruction.BottomLeft()

	var p Path
	p.MoveTo(topStart)
	curve(&p, topStart, topEnd, -b.ApexLength)
	p.LineTo(bottomEnd)
	curve(&p, bottomEnd, bottomStart, b.ApexLength)
	p.ClosePath()
	return &p
}

// curve appends the quadratic from→to whose control point is the chord
// midpoint shifted by dy, split at t=0.5 into two segments.
func curve(p *Path, from, to Point, dy float64) {
	ctrl := from.Mid(to).Add(Point{0, dy})
	join := from.Add(ctrl.Scale(2)).Add(to).Scale(0.25)
	p.QuadraticTo(from.Mid(ctrl), join)
	p.QuadraticTo(ctrl.Mid(to), to)
}
