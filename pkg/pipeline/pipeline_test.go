package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/recipeflow/pkg/cache"
	"github.com/matzehuels/recipeflow/pkg/errors"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/observability"
	"github.com/matzehuels/recipeflow/pkg/recipe"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateType(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{"flow", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateType(tt.typ)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateType(%q) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{"svg,json", []string{"svg", "json"}},
		{" SVG , json,,svg ", []string{"svg", "json"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := ParseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.Type != TypeFlow {
		t.Errorf("Type = %q, want %q", opts.Type, TypeFlow)
	}
	if opts.Mode != "columns" {
		t.Errorf("Mode = %q, want columns", opts.Mode)
	}
	if opts.Width != 960 {
		t.Errorf("Width = %v, want 960", opts.Width)
	}
	if opts.ApexLength != 24 {
		t.Errorf("ApexLength = %v, want 24", opts.ApexLength)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Linkage == nil || opts.Linkage.Threshold != linkage.DefaultThreshold {
		t.Errorf("Linkage = %+v, want default config", opts.Linkage)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaults_Errors(t *testing.T) {
	badCfg := linkage.DefaultConfig()
	badCfg.Threshold = 2

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"type", Options{Type: "tower"}, errors.ErrCodeInvalidInput},
		{"mode", Options{Mode: "diagonal"}, errors.ErrCodeInvalidLayout},
		{"width", Options{Width: 100}, errors.ErrCodeInvalidLayout},
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"scale", Options{Scale: 20}, errors.ErrCodeInvalidInput},
		{"linkage", Options{Linkage: &badCfg}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Interactive: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Scale != 0 {
		t.Errorf("svg key should ignore scale, got %v", svg.Scale)
	}
	if !svg.Interactive || svg.Type != TypeFlow || svg.Mode != "columns" {
		t.Errorf("svg key = %+v", svg)
	}
	if png := opts.ArtifactKeyOpts(FormatPNG); png.Scale != 3 {
		t.Errorf("png key scale = %v, want 3", png.Scale)
	}
}

func TestArtifactKeyOptsRenderFlags(t *testing.T) {
	base := Options{}
	if err := base.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewDefaultKeyer()
	baseKey := keyer.ArtifactKey("fp", base.ArtifactKeyOpts(FormatSVG))

	variants := map[string]Options{
		"no title":     {NoTitle: true},
		"no durations": {NoDurations: true},
		"compact":      {Compact: true},
	}
	for name, o := range variants {
		t.Run(name, func(t *testing.T) {
			if err := o.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			if keyer.ArtifactKey("fp", o.ArtifactKeyOpts(FormatSVG)) == baseKey {
				t.Error("flag should change the artifact key")
			}
		})
	}
}

func TestIsFlow(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"", true},
		{TypeFlow, true},
		{TypeNodelink, false},
	}
	for _, tt := range tests {
		o := Options{Type: tt.typ}
		if got := o.IsFlow(); got != tt.want {
			t.Errorf("IsFlow() with type %q = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	cfg := linkage.DefaultConfig()
	a := recipe.Sample()
	b := recipe.Sample()

	fingerprint := func(rec *recipe.Recipe, c linkage.Config) string {
		t.Helper()
		fp, err := Fingerprint(rec, c)
		if err != nil {
			t.Fatalf("Fingerprint: %v", err)
		}
		return fp
	}

	if fingerprint(a, cfg) != fingerprint(b, cfg) {
		t.Error("identical recipes should share a fingerprint")
	}

	b.Name = "Cookies"
	if fingerprint(a, cfg) == fingerprint(b, cfg) {
		t.Error("renaming the recipe should change the fingerprint")
	}

	other := cfg
	other.Threshold = 0.5
	if fingerprint(a, cfg) == fingerprint(a, other) {
		t.Error("changing the linkage config should change the fingerprint")
	}
}

func TestExecute_Sample(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	rec := recipe.Sample()

	result, err := r.Execute(context.Background(), rec, Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := linkage.Analyze(rec.Ingredients, rec.Instructions)
	if len(result.Links) != len(want) {
		t.Fatalf("got %d links, want %d", len(result.Links), len(want))
	}
	if len(result.Shapes) != len(result.Links) {
		t.Errorf("got %d shapes for %d links", len(result.Shapes), len(result.Links))
	}
	if result.Stats.Ingredients != len(rec.Ingredients) || result.Stats.Instructions != len(rec.Instructions) {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Scores != nil {
		t.Error("scores should be nil without Explain")
	}
	if result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}

	if svg := string(result.Artifacts[FormatSVG]); !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg artifact starts with %.20q", svg)
	}
	if dot := string(result.Artifacts[FormatDOT]); !strings.HasPrefix(dot, "digraph") {
		t.Errorf("dot artifact starts with %.20q", dot)
	}
	var doc map[string]any
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc["id"] != rec.ID {
		t.Errorf("json id = %v, want %s", doc["id"], rec.ID)
	}
}

func TestExecute_RenderFlags(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), recipe.Sample(), Options{
		Formats:     []string{FormatSVG, FormatJSON},
		NoTitle:     true,
		NoDurations: true,
		Compact:     true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	svg := string(result.Artifacts[FormatSVG])
	if strings.Contains(svg, `class="title"`) || strings.Contains(svg, `class="duration"`) {
		t.Error("svg should have no title or duration badges")
	}
	if js := strings.TrimSpace(string(result.Artifacts[FormatJSON])); strings.Contains(js, "\n") {
		t.Error("compact json should be a single line")
	}
}

func TestExecute_Explain(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), recipe.Sample(), Options{
		Formats: []string{FormatJSON},
		Explain: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Scores) != len(result.Links) {
		t.Fatalf("got %d scores for %d links", len(result.Scores), len(result.Links))
	}
	for _, l := range result.Links {
		if s := result.Scores[l]; s.Confidence != l.Confidence {
			t.Errorf("score for %+v has confidence %v", l, s.Confidence)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"evidence"`) {
		t.Error("explained JSON should carry evidence")
	}
}

func TestExecute_Nodelink(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), recipe.Sample(), Options{
		Type:       TypeNodelink,
		Formats:    []string{FormatDOT},
		HideUnused: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "rankdir=LR") {
		t.Error("nodelink DOT should lay out left to right")
	}
}

func TestExecute_EmptyRecipe(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), &recipe.Recipe{Name: "Nothing"}, Options{
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Links) != 0 || len(result.Shapes) != 0 {
		t.Errorf("empty recipe produced %d links, %d shapes", len(result.Links), len(result.Shapes))
	}
}

func TestExecute_InvalidRecipe(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), &recipe.Recipe{}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidRecipe) {
		t.Errorf("err = %v, want INVALID_RECIPE", err)
	}
}

func TestExecute_Cache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, recipe.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, recipe.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if len(second.Links) != len(first.Links) {
		t.Error("links should be recomputed on a cache hit")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, recipe.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	// A different apex changes the ribbons and must not reuse the artifact.
	opts = Options{Formats: []string{FormatSVG}, ApexLength: 40}
	fourth, err := r.Execute(ctx, recipe.Sample(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("new apex length should miss")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnAnalyzeStart(context.Context, string, int, int) {
	h.record("analyze:start")
}

func (h *recordingHooks) OnAnalyzeComplete(context.Context, string, int, time.Duration) {
	h.record("analyze:done")
}

func (h *recordingHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {
	h.record("layout:done")
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render:done")
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), recipe.Sample(), Options{Formats: []string{FormatJSON}}); err != nil {
		t.Fatal(err)
	}

	want := "analyze:start,analyze:done,layout:done,render:done"
	if got := strings.Join(hooks.events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}
