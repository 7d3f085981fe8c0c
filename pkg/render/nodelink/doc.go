// Package nodelink draws a recipe's links as a node-and-edge graph using
// Graphviz.
//
// Ingredients form the left rank and steps the right rank; every link
// becomes an edge from ingredient to step. This is the plain-graph
// counterpart of the ribbon diagram in [sink], useful when a recipe has too
// many crossings for ribbons to stay readable.
//
// Unlike the ribbon diagram, which computes its own layout, nodelink hands
// positioning to Graphviz. The DOT string is the intermediate form:
//
//	Flow:     Recipe → layout.Build() → Scene → sink.RenderSVG() → SVG
//	Nodelink: Recipe → ToDOT() → DOT → RenderSVG() → SVG
//
// # Usage
//
//	links := linkage.Analyze(r.Ingredients, r.Instructions)
//	dot := nodelink.ToDOT(r, links, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Ingredients that no step uses are drawn dashed and grey, or dropped with
// Options.HideUnused.
//
// [sink]: github.com/matzehuels/recipeflow/pkg/render/sink
package nodelink
