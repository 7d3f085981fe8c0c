// Package pkg provides the core libraries for Recipeflow recipe visualization.
//
// # Overview
//
// Recipeflow infers which ingredients each instruction step of a recipe uses
// and draws the answer as colored ribbons flowing from the ingredient list
// into the steps. The pkg directory is organized into four main areas:
//
//  1. [recipe] - The data model, file codecs and recipe stores
//  2. [linkage] and [flow] - The two engine components: link inference and ribbon geometry
//  3. [layout] and [render] - Row placement and output formats
//  4. [pipeline] - Orchestration (analyze → layout → render) with caching
//
// # Architecture
//
// The typical data flow through Recipeflow:
//
//	Recipe file / store
//	         ↓
//	    [linkage] package (score every ingredient × step pair)
//	         ↓
//	    [layout] package (measure ingredient and instruction rows)
//	         ↓
//	    [flow] package (one ribbon per accepted link)
//	         ↓
//	    SVG/PDF/PNG/JSON/DOT output
//
// # Quick Start
//
//	rec, _ := recipe.Load("cookies.toml")
//
//	// 1. Infer links
//	links := linkage.Analyze(rec.Ingredients, rec.Instructions)
//
//	// 2. Place rows
//	l, _ := layout.Build(rec, layout.DefaultOptions())
//
//	// 3. Build ribbons
//	shapes := flow.BuildShapes(links, rec.Ingredients, rec.Instructions, l.Ingredients, l.Instructions)
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(sink.Scene{Recipe: rec, Layout: l, Links: links, Shapes: shapes})
//
// [pipeline.Runner] does all of this in one call and caches the rendered
// artifacts.
//
// # Main Packages
//
// [linkage] - Keyword, stem, verb-pair and step-position heuristics combined
// into a clamped confidence per pair. The weights, threshold and term tables
// live in [linkage.Config]; [linkage.DefaultConfig] reproduces the tuned
// defaults.
//
// [flow] - Closed quadratic-curve ribbons between two rectangles, the
// ten-color step palette and confidence-to-opacity mapping.
//
// [layout] - Columns (side by side) and stacked (narrow) row placement.
//
// [render/sink] - The ribbon diagram as SVG, JSON, PDF and PNG.
//
// [render/nodelink] - Bipartite ingredient → step diagrams via Graphviz.
//
// ## Infrastructure
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors that map onto CLI messages and HTTP statuses.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [recipe]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/recipe
// [linkage]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/linkage
// [linkage.Config]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/linkage#Config
// [linkage.DefaultConfig]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/linkage#DefaultConfig
// [flow]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/flow
// [layout]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/recipeflow/pkg/errors
package pkg
