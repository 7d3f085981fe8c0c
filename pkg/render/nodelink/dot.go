package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
	"github.com/matzehuels/recipeflow/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds quantities, durations and edge confidences to labels.
	// When false, nodes show only the ingredient name or step number.
	Detailed bool
	// HideUnused drops ingredients that no link references.
	HideUnused bool
}

// IngredientID and StepID are the DOT node identifiers for list positions.
func IngredientID(i int) string { return fmt.Sprintf("ing%d", i) }
func StepID(i int) string       { return fmt.Sprintf("step%d", i) }

// ToDOT converts a recipe and its links to a left-to-right bipartite graph:
// ingredients in one rank, steps in the next, one edge per link. Edges take
// the color of their step and get thicker with confidence.
func ToDOT(r *recipe.Recipe, links []linkage.Link, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", r.Name)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=2.0;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	unused := make(map[int]bool)
	for _, i := range linkage.Unused(links, len(r.Ingredients)) {
		unused[i] = true
	}

	var ingIDs []string
	for i, ing := range r.Ingredients {
		if unused[i] && opts.HideUnused {
			continue
		}
		label := ing.Name
		if opts.Detailed {
			label = ing.Display()
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if unused[i] {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgray")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", IngredientID(i), strings.Join(attrs, ", "))
		ingIDs = append(ingIDs, strconv.Quote(IngredientID(i)))
	}

	var stepIDs []string
	for i, ins := range r.Instructions {
		c := flow.ColorForStep(ins.Step)
		label := fmt.Sprintf("Step %d", ins.Step)
		if opts.Detailed {
			label += "\n" + wrapLabel(ins.Description, 32)
			if ins.HasDuration() {
				label += "\n(" + ins.Duration + ")"
			}
		}
		fmt.Fprintf(&buf, "  %q [label=%q, color=%q, fillcolor=%q];\n",
			StepID(i), label, c.Hex, withAlpha(c.Hex, 0.25))
		stepIDs = append(stepIDs, strconv.Quote(StepID(i)))
	}

	if len(ingIDs) > 0 {
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ingIDs, "; "))
	}
	if len(stepIDs) > 0 {
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(stepIDs, "; "))
	}

	buf.WriteString("\n")
	for _, l := range links {
		c := flow.ColorForStep(r.StepAt(l.InstructionIndex))
		attrs := []string{
			fmt.Sprintf("color=%q", withAlpha(c.Hex, flow.Opacity(l.Confidence))),
			fmt.Sprintf("penwidth=%.2f", 1+3*l.Confidence),
			"arrowsize=0.6",
		}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=\"%.2f\"", l.Confidence), "fontsize=12")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", IngredientID(l.IngredientIndex), StepID(l.InstructionIndex), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// withAlpha appends an alpha byte to a #RRGGBB color.
func withAlpha(hex string, alpha float64) string {
	a := int(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return fmt.Sprintf("%s%02X", hex, a)
}

func wrapLabel(s string, width int) string {
	var lines []string
	var cur []string
	n := 0
	for _, w := range strings.Fields(s) {
		if n > 0 && n+1+len(w) > width {
			lines = append(lines, strings.Join(cur, " "))
			cur, n = nil, 0
		}
		if n > 0 {
			n++
		}
		cur = append(cur, w)
		n += len(w)
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return strings.Join(lines, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the SVG scales like the flow diagram.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
