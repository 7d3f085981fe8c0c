// Package render holds output-format helpers shared by the recipe
// visualizations.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG document with the external
// rsvg-convert tool (from librsvg). Both the flow diagram sinks and the
// node-link renderer use them:
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is not on PATH the functions return an UNSUPPORTED
// error that explains how to install it; [Available] lets callers check
// ahead of time.
//
// # Subpackages
//
//   - [sink]: the ribbon diagram as SVG, JSON, PDF and PNG
//   - [nodelink]: a bipartite ingredient → step graph laid out by Graphviz
//
// [sink]: github.com/matzehuels/recipeflow/pkg/render/sink
// [nodelink]: github.com/matzehuels/recipeflow/pkg/render/nodelink
package render
