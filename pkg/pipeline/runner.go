package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipeflow/pkg/cache"
	"github.com/matzehuels/recipeflow/pkg/flow"
	"github.com/matzehuels/recipeflow/pkg/layout"
	"github.com/matzehuels/recipeflow/pkg/linkage"
	"github.com/matzehuels/recipeflow/pkg/observability"
	"github.com/matzehuels/recipeflow/pkg/recipe"
	"github.com/matzehuels/recipeflow/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete analyze → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, rec *recipe.Recipe, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(rec, opts.LinkageConfig())
	if err != nil {
		return nil, err
	}
	result := &Result{
		Recipe:      rec,
		Fingerprint: fingerprint,
		Artifacts:   make(map[string][]byte),
	}
	result.Stats.Ingredients = len(rec.Ingredients)
	result.Stats.Instructions = len(rec.Instructions)

	// Stage 1: Analyze
	analyzeStart := time.Now()
	result.Links, result.Scores = r.Analyze(ctx, rec, opts)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.Links = len(result.Links)
	result.Stats.Unused = len(linkage.Unused(result.Links, len(rec.Ingredients)))

	r.Logger.Info("analyzed recipe",
		"recipe", rec.ID,
		"links", result.Stats.Links,
		"unused", result.Stats.Unused,
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, shapes, err := r.ComputeLayout(ctx, rec, result.Links, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout, result.Shapes = l, shapes
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"mode", l.Mode,
		"shapes", len(shapes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	scene := sink.Scene{Recipe: rec, Layout: l, Links: result.Links, Shapes: shapes}
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, result.Fingerprint, result.Scores, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze infers the recipe's links. When opts.Explain is set it also returns
// the score breakdown of every accepted link; otherwise the map is nil.
func (r *Runner) Analyze(ctx context.Context, rec *recipe.Recipe, opts Options) ([]linkage.Link, map[linkage.Link]linkage.Score) {
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, rec.ID, len(rec.Ingredients), len(rec.Instructions))
	start := time.Now()

	a := linkage.New(opts.LinkageConfig())
	links := a.Analyze(rec.Ingredients, rec.Instructions)

	var scores map[linkage.Link]linkage.Score
	if opts.Explain {
		scores = make(map[linkage.Link]linkage.Score, len(links))
		for _, l := range links {
			scores[l] = a.Score(rec.Ingredients[l.IngredientIndex], rec.Instructions[l.InstructionIndex])
		}
	}

	hooks.OnAnalyzeComplete(ctx, rec.ID, len(links), time.Since(start))
	return links, scores
}

// ComputeLayout measures the recipe's rows and builds one ribbon per link.
func (r *Runner) ComputeLayout(ctx context.Context, rec *recipe.Recipe, links []linkage.Link, opts Options) (layout.Layout, []flow.Shape, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Mode, len(rec.Ingredients)+len(rec.Instructions))
	start := time.Now()

	l, err := layout.Build(rec, opts.LayoutOptions())
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Mode, 0, time.Since(start), err)
		return layout.Layout{}, nil, err
	}

	b := flow.Builder{ApexLength: opts.ApexLength}
	shapes := b.Build(links, rec.Ingredients, rec.Instructions, l.Ingredients, l.Instructions)

	hooks.OnLayoutComplete(ctx, opts.Mode, len(shapes), time.Since(start), nil)
	return l, shapes, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The fingerprint identifies the scene's content; see [Fingerprint].
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s sink.Scene, fingerprint string, scores map[linkage.Link]linkage.Score, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(fingerprint, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, key)
				break
			}
			cacheHooks.OnCacheHit(ctx, key)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, s, scores, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(fingerprint, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, key, len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s sink.Scene, fingerprint string, scores map[linkage.Link]linkage.Score, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, fingerprint, scores, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Fingerprint hashes everything about a recipe that reaches a rendered
// artifact: the linkage inputs and config plus the header fields drawn in
// the title.
func Fingerprint(rec *recipe.Recipe, cfg linkage.Config) (string, error) {
	lfp, err := linkage.Fingerprint(rec.Ingredients, rec.Instructions, cfg)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(struct {
		Linkage  string `json:"l"`
		ID       string `json:"id"`
		Name     string `json:"n"`
		Servings int    `json:"s"`
	}{lfp, rec.ID, rec.Name, rec.Servings})
	if err != nil {
		return "", fmt.Errorf("fingerprint recipe: %w", err)
	}
	return cache.Hash(data), nil
}
