package sink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
)

const rowInteractionCSS = `
    .ribbon { transition: fill-opacity 0.2s ease; }
    .ribbon.dim { fill-opacity: 0.08; }
    .row { transition: stroke-width 0.2s ease; }
    .row.highlight { stroke-width: 3; }
    .ingredient, .instruction { cursor: pointer; }`

const rowInteractionJS = `
    function focus(attr, idx) {
      document.querySelectorAll('.ribbon').forEach(r => r.classList.toggle('dim', r.dataset[attr] !== idx));
      document.querySelectorAll('.row').forEach(r => r.classList.toggle('highlight', r.dataset[attr] === idx));
    }
    function clearFocus() {
      document.querySelectorAll('.ribbon, .row').forEach(el => el.classList.remove('dim', 'highlight'));
    }
    document.querySelectorAll('.ingredient').forEach(el => {
      el.addEventListener('mouseenter', () => focus('ingredient', el.dataset.ingredient));
      el.addEventListener('mouseleave', clearFocus);
    });
    document.querySelectorAll('.instruction').forEach(el => {
      el.addEventListener('mouseenter', () => focus('instruction', el.dataset.instruction));
      el.addEventListener('mouseleave', clearFocus);
    });`

const (
	defaultBackground = "#FAFAF7"
	textColor         = "#1C1C1E"
	mutedColor        = "#8E8E93"
	unusedFill        = "#F2F2F7"
	rowTint           = 0.18
	fontFamily        = "-apple-system, 'Helvetica Neue', Arial, sans-serif"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	title       bool
	durations   bool
	interactive bool
}

// WithBackground sets the page fill. An empty string makes it transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutTitle omits the recipe name header.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.title = false } }

// WithoutDurations hides the duration badges on instruction rows.
func WithoutDurations() SVGOption { return func(r *svgRenderer) { r.durations = false } }

// WithInteraction embeds CSS and script that highlight a row's ribbons on hover.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{background: defaultBackground, title: true, durations: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the scene. Ribbons are painted first so the rows sit on
// top of their ends. Ingredient rows are tinted with the color of their
// strongest link and instruction rows with their own step color.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	l := s.Layout
	view := canvas(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		fmtCoord(view.MinX), fmtCoord(view.MinY), fmtCoord(view.Width()), fmtCoord(view.Height()), view.Width(), view.Height(), fontFamily)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="100%%" height="100%%" fill="%s"/>`+"\n",
			fmtCoord(view.MinX), fmtCoord(view.MinY), r.background)
	}
	if r.title && s.Recipe != nil {
		renderTitle(&buf, s, l)
	}

	buf.WriteString("  <g class=\"ribbons\">\n")
	for _, sh := range s.Shapes {
		renderRibbon(&buf, sh)
	}
	buf.WriteString("  </g>\n")

	if s.Recipe != nil {
		renderIngredients(&buf, s, l)
		renderInstructions(&buf, s, l, r.durations)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", rowInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", rowInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// canvas is the layout page grown to contain every ribbon, so a large apex
// length is never clipped at the page edge.
func canvas(s Scene) flow.Rect {
	view := flow.Rect{MaxX: s.Layout.Width, MaxY: s.Layout.Height}
	for _, sh := range s.Shapes {
		if sh.Path != nil {
			view = view.Union(sh.Path.Bounds())
		}
	}
	return view
}

func fmtCoord(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func renderTitle(buf *bytes.Buffer, s Scene, l layout.Layout) {
	t := l.Title
	fmt.Fprintf(buf, `  <text class="title" x="%.1f" y="%.1f" font-size="%.1f" font-weight="bold" fill="%s">%s</text>`+"\n",
		t.MinX, t.MinY+l.FontSize*1.6, l.FontSize*1.6, textColor, escapeXML(s.Recipe.Name))

	var meta []string
	if s.Recipe.Servings > 0 {
		meta = append(meta, fmt.Sprintf("%d servings", s.Recipe.Servings))
	}
	meta = append(meta, fmt.Sprintf("%d ingredients", len(s.Recipe.Ingredients)), fmt.Sprintf("%d steps", len(s.Recipe.Instructions)))
	fmt.Fprintf(buf, `  <text class="subtitle" x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		t.MinX, t.MaxY-4, l.FontSize*0.85, mutedColor, escapeXML(strings.Join(meta, " · ")))
}

func renderRibbon(buf *bytes.Buffer, sh flow.Shape) {
	fmt.Fprintf(buf, `    <path class="ribbon step-%d" data-ingredient="%d" data-instruction="%d" d="%s" fill="%s" fill-opacity="%s"/>`+"\n",
		sh.Step, sh.Link.IngredientIndex, sh.Link.InstructionIndex, sh.Path.SVG(), sh.Color.Hex, fmtOpacity(sh.Opacity))
}

func renderIngredients(buf *bytes.Buffer, s Scene, l layout.Layout) {
	for i, ing := range s.Recipe.Ingredients {
		rect, ok := l.Ingredients[i]
		if !ok {
			continue
		}
		fill, stroke, opacity := unusedFill, mutedColor, "1"
		if c, used := s.IngredientColor(i); used {
			fill, stroke, opacity = c.Hex, c.Hex, fmtOpacity(rowTint)
		}

		fmt.Fprintf(buf, `  <g class="ingredient" data-ingredient="%d">`+"\n", i)
		fmt.Fprintf(buf, `    <rect class="row" data-ingredient="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="1"/>`+"\n",
			i, rect.MinX, rect.MinY, rect.Width(), rect.Height(), fill, opacity, stroke)

		chars := layout.CharsPerLine(rect.Width()-16, l.FontSize)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			rect.MinX+8, rect.CenterY(), l.FontSize, textColor, escapeXML(truncate(ing.Display(), chars)))
		buf.WriteString("  </g>\n")
	}
}

func renderInstructions(buf *bytes.Buffer, s Scene, l layout.Layout, durations bool) {
	lh := l.LineHeight()
	for i, ins := range s.Recipe.Instructions {
		rect, ok := l.Instructions[i]
		if !ok {
			continue
		}
		c := s.InstructionColor(i)

		fmt.Fprintf(buf, `  <g class="instruction" data-instruction="%d">`+"\n", i)
		fmt.Fprintf(buf, `    <rect class="row" data-instruction="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="1"/>`+"\n",
			i, rect.MinX, rect.MinY, rect.Width(), rect.Height(), c.Hex, fmtOpacity(rowTint), c.Hex)

		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			rect.MinX, rect.MinY, l.FontSize*0.8, c.Hex)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" font-weight="bold" fill="#FFFFFF" text-anchor="middle" dominant-baseline="central">%d</text>`+"\n",
			rect.MinX, rect.MinY, l.FontSize*0.8, ins.Step)

		y := rect.MinY + 10 + lh*0.75
		for _, line := range l.Lines[i] {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
				rect.MinX+10, y, l.FontSize, textColor, escapeXML(line))
			y += lh
		}

		if durations && ins.HasDuration() {
			fmt.Fprintf(buf, `    <text class="duration" x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="end">%s</text>`+"\n",
				rect.MaxX-8, rect.MinY-4, l.FontSize*0.8, mutedColor, escapeXML("⏱ "+ins.Duration))
		}
		buf.WriteString("  </g>\n")
	}
}

func fmtOpacity(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
