package sink

import (
	"encoding/json"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	scores  map[linkage.Link]linkage.Score
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONScores attaches per-link score breakdowns, keyed by link. Links
// without an entry are written without one.
func WithJSONScores(scores map[linkage.Link]linkage.Score) JSONOption {
	return func(r *jsonRenderer) { r.scores = scores }
}

type jsonOutput struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Mode         layout.Mode       `json:"mode"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Ingredients  []jsonIngredient  `json:"ingredients"`
	Instructions []jsonInstruction `json:"instructions"`
	Links        []jsonLink        `json:"links"`
	Shapes       []jsonShape       `json:"shapes"`
}

type jsonIngredient struct {
	Index int        `json:"index"`
	Label string     `json:"label"`
	Rect  *flow.Rect `json:"rect,omitempty"`
	Color string     `json:"color,omitempty"`
}

type jsonInstruction struct {
	Index       int        `json:"index"`
	Step        int        `json:"step"`
	Description string     `json:"description"`
	Duration    string     `json:"duration,omitempty"`
	Rect        *flow.Rect `json:"rect,omitempty"`
	Color       string     `json:"color"`
}

type jsonLink struct {
	linkage.Link
	Score *linkage.Score `json:"score,omitempty"`
}

type jsonShape struct {
	Ingredient  int     `json:"ingredient_index"`
	Instruction int     `json:"instruction_index"`
	Step        int     `json:"step"`
	Path        string  `json:"path"`
	Color       string  `json:"color"`
	Hex         string  `json:"hex"`
	Opacity     float64 `json:"opacity"`
}

// RenderJSON exports the scene as a JSON document: row rectangles, links
// and ribbon paths. Web front ends can draw from it without recomputing
// anything. It returns an error only if marshaling fails.
func RenderJSON(s Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Mode:         s.Layout.Mode,
		Width:        s.Layout.Width,
		Height:       s.Layout.Height,
		Ingredients:  []jsonIngredient{},
		Instructions: []jsonInstruction{},
		Links:        make([]jsonLink, 0, len(s.Links)),
		Shapes:       make([]jsonShape, 0, len(s.Shapes)),
	}

	if s.Recipe != nil {
		out.ID, out.Name = s.Recipe.ID, s.Recipe.Name
		for i, ing := range s.Recipe.Ingredients {
			ji := jsonIngredient{Index: i, Label: ing.Display(), Rect: rectPtr(s.Layout.Ingredients, i)}
			if c, ok := s.IngredientColor(i); ok {
				ji.Color = c.Hex
			}
			out.Ingredients = append(out.Ingredients, ji)
		}
		for i, ins := range s.Recipe.Instructions {
			out.Instructions = append(out.Instructions, jsonInstruction{
				Index:       i,
				Step:        ins.Step,
				Description: ins.Description,
				Duration:    ins.Duration,
				Rect:        rectPtr(s.Layout.Instructions, i),
				Color:       s.InstructionColor(i).Hex,
			})
		}
	}

	for _, l := range s.Links {
		jl := jsonLink{Link: l}
		if sc, ok := r.scores[l]; ok {
			jl.Score = &sc
		}
		out.Links = append(out.Links, jl)
	}

	for _, sh := range s.Shapes {
		out.Shapes = append(out.Shapes, jsonShape{
			Ingredient:  sh.Link.IngredientIndex,
			Instruction: sh.Link.InstructionIndex,
			Step:        sh.Step,
			Path:        sh.Path.SVG(),
			Color:       sh.Color.Name,
			Hex:         sh.Color.Hex,
			Opacity:     sh.Opacity,
		})
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func rectPtr(m map[int]flow.Rect, i int) *flow.Rect {
	if r, ok := m[i]; ok {
		return &r
	}
	return nil
}
