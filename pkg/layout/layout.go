package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// Mode selects how rows are arranged.
type Mode string

const (
	ModeColumns Mode = "columns"
	ModeStacked Mode = "stacked"
)

// Modes lists the supported layout modes.
var Modes = []Mode{ModeColumns, ModeStacked}

// ModeNames returns Modes joined for flag help and error messages.
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// ParseMode validates a mode name. The empty string selects ModeColumns.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeColumns:
		return ModeColumns, nil
	case ModeStacked:
		return ModeStacked, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout mode %q (want %s)", s, ModeNames())
}

// Size limits.
const (
	DefaultWidth    = 960.0
	MinWidth        = 360.0
	MaxWidth        = 4096.0
	DefaultFontSize = 14.0
)

const (
	margin          = 24.0
	titleHeight     = 48.0
	ingredientRow   = 28.0
	ingredientGap   = 8.0
	instructionGap  = 12.0
	instructionPad  = 10.0
	minInstruction  = 40.0
	lineHeightRatio = 1.4
	charWidthRatio  = 0.55
	stackedGap      = 32.0
)

// Options configures Build.
type Options struct {
	Mode     Mode
	Width    float64
	FontSize float64
}

// DefaultOptions returns the standard column layout.
func DefaultOptions() Options {
	return Options{Mode: ModeColumns, Width: DefaultWidth, FontSize: DefaultFontSize}
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeColumns
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	return o
}

// Validate reports whether the options can produce a layout.
func (o Options) Validate() error {
	o = o.withDefaults()
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Width < MinWidth || o.Width > MaxWidth {
		return errors.New(errors.ErrCodeInvalidLayout, "width %.0f outside [%.0f, %.0f]", o.Width, MinWidth, MaxWidth)
	}
	if o.FontSize < 6 || o.FontSize > 48 {
		return errors.New(errors.ErrCodeInvalidLayout, "font size %.1f outside [6, 48]", o.FontSize)
	}
	return nil
}

// Layout holds the computed page geometry. Row rectangles are keyed by the
// row's index in the recipe's ingredient or instruction list.
type Layout struct {
	Mode     Mode    `json:"mode"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"font_size"`

	Title flow.Rect `json:"title"`

	Ingredients  map[int]flow.Rect `json:"ingredients"`
	Instructions map[int]flow.Rect `json:"instructions"`

	// Lines holds each instruction's description wrapped to its row width.
	Lines map[int][]string `json:"lines"`
}

// LineHeight returns the distance between wrapped text baselines.
func (l Layout) LineHeight() float64 { return l.FontSize * lineHeightRatio }

// Build lays out r. An empty recipe yields a page holding only the title.
func Build(r *recipe.Recipe, opts Options) (Layout, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}
	mode, _ := ParseMode(string(opts.Mode))

	l := Layout{
		Mode:         mode,
		Width:        opts.Width,
		FontSize:     opts.FontSize,
		Title:        flow.Rect{MinX: margin, MinY: margin, MaxX: opts.Width - margin, MaxY: margin + titleHeight},
		Ingredients:  make(map[int]flow.Rect, len(r.Ingredients)),
		Instructions: make(map[int]flow.Rect, len(r.Instructions)),
		Lines:        make(map[int][]string, len(r.Instructions)),
	}

	inner := opts.Width - 2*margin
	top := l.Title.MaxY + ingredientGap

	var ingLeft, ingWidth, insLeft, insWidth, insTop float64
	switch mode {
	case ModeStacked:
		ingLeft, ingWidth = margin, inner*0.45
		insLeft = margin + inner*0.55
		insWidth = opts.Width - margin - insLeft
	default:
		ingLeft, ingWidth = margin, inner*0.3
		insLeft = margin + inner*0.45
		insWidth = opts.Width - margin - insLeft
	}

	y := top
	for i := range r.Ingredients {
		l.Ingredients[i] = flow.Rect{MinX: ingLeft, MinY: y, MaxX: ingLeft + ingWidth, MaxY: y + ingredientRow}
		y += ingredientRow + ingredientGap
	}
	ingBottom := y

	insTop = top
	if mode == ModeStacked && len(r.Ingredients) > 0 {
		insTop = ingBottom + stackedGap
	}

	chars := CharsPerLine(insWidth-2*instructionPad, opts.FontSize)
	y = insTop
	for i, ins := range r.Instructions {
		lines := Wrap(ins.Description, chars)
		h := math.Max(minInstruction, float64(len(lines))*l.LineHeight()+2*instructionPad)
		l.Instructions[i] = flow.Rect{MinX: insLeft, MinY: y, MaxX: insLeft + insWidth, MaxY: y + h}
		l.Lines[i] = lines
		y += h + instructionGap
	}

	l.Height = math.Max(math.Max(ingBottom, y), l.Title.MaxY) + margin
	return l, nil
}

// CharsPerLine estimates how many characters fit in width at fontSize.
func CharsPerLine(width, fontSize float64) int {
	return max(1, int(width/(fontSize*charWidthRatio)))
}
