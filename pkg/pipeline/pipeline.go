// Package pipeline provides the analyze → layout → render pipeline for
// recipeflow.
//
// The CLI and the HTTP server both go through a [Runner] so that defaults,
// validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Analyze: infer ingredient → step links with a [linkage.Analyzer]
//  2. Layout: measure row rectangles and build flow ribbons
//  3. Render: produce artifacts (SVG, JSON, PDF, PNG, DOT)
//
// Links and geometry are cheap and always recomputed. Only rendered
// artifacts are cached, keyed by the recipe's content fingerprint and the
// options that change the output bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, recipe.Sample(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipeflow/pkg/cache"
	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds PNG output size.
	MaxScale = 8.0
)

// Visualization types.
const (
	TypeFlow     = "flow"
	TypeNodelink = "nodelink"
)

// DefaultType is the default visualization type.
const DefaultType = TypeFlow

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidTypes is the set of supported visualization types.
var ValidTypes = map[string]bool{
	TypeFlow:     true,
	TypeNodelink: true,
}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analysis options. A nil Linkage selects linkage.DefaultConfig.
	Linkage *linkage.Config `json:"linkage,omitempty"`

	// Layout options
	Type       string  `json:"type,omitempty"`
	Mode       string  `json:"mode,omitempty"`
	Width      float64 `json:"width,omitempty"`
	ApexLength float64 `json:"apex,omitempty"` // zero selects flow.DefaultApexLength

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`    // nodelink: confidence edge labels
	HideUnused  bool     `json:"hide_unused,omitempty"` // nodelink: drop unlinked ingredients
	Interactive bool     `json:"interactive,omitempty"` // SVG hover highlighting
	NoTitle     bool     `json:"no_title,omitempty"`     // flow: omit the recipe name header
	NoDurations bool     `json:"no_durations,omitempty"` // flow: hide duration badges
	Compact     bool     `json:"compact,omitempty"`     // JSON: no indentation
	Explain     bool     `json:"explain,omitempty"`     // JSON: per-link score breakdown
	Refresh     bool     `json:"refresh,omitempty"`     // skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Recipe is the recipe the run was computed from.
	Recipe *recipe.Recipe

	// Fingerprint is the content hash of the recipe and linkage config.
	Fingerprint string

	// Links are the accepted ingredient → step links.
	Links []linkage.Link

	// Scores holds the breakdown of every accepted link when Explain is set.
	Scores map[linkage.Link]linkage.Score

	// Layout contains the measured row rectangles.
	Layout layout.Layout

	// Shapes are the flow ribbons, one per link.
	Shapes []flow.Shape

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether rendering hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Ingredients  int
	Instructions int
	Links        int
	Unused       int
	AnalyzeTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateType checks that a visualization type is valid.
func ValidateType(t string) error {
	if !ValidTypes[t] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid type: %q (must be one of: flow, nodelink)", t)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Type == "" {
		o.Type = DefaultType
	}
	if err := ValidateType(o.Type); err != nil {
		return err
	}

	mode, err := layout.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.Mode = string(mode)
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	if o.ApexLength == 0 {
		o.ApexLength = flow.DefaultApexLength
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale %.1f outside (0, %.0f]", o.Scale, MaxScale)
	}

	if o.Linkage == nil {
		cfg := linkage.DefaultConfig()
		o.Linkage = &cfg
	}
	if err := o.Linkage.Validate(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// IsFlow returns true if this is a flow visualization.
func (o *Options) IsFlow() bool {
	return o.Type == "" || o.Type == TypeFlow
}

// LinkageConfig returns the analyzer configuration, falling back to the
// defaults when none was set.
func (o *Options) LinkageConfig() linkage.Config {
	if o.Linkage == nil {
		return linkage.DefaultConfig()
	}
	return *o.Linkage
}

// LayoutOptions returns the options for layout.Build.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Mode:  layout.Mode(o.Mode),
		Width: o.Width,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Type:        o.Type,
		Mode:        o.Mode,
		Width:       o.Width,
		ApexLength:  o.ApexLength,
		Detailed:    o.Detailed,
		HideUnused:  o.HideUnused,
		Interactive: o.Interactive,
		NoTitle:     o.NoTitle,
		NoDurations: o.NoDurations,
		Compact:     o.Compact,
		Explain:     o.Explain,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
