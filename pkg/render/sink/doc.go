// Package sink writes a recipe flow [Scene] in the supported output formats.
//
// # Overview
//
// A "sink" transforms a computed scene (recipe, layout, links and ribbons)
// into a final output format:
//
//   - SVG: the ribbon diagram, optionally interactive
//   - JSON: row rectangles, links and ribbon paths for web front ends
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] paints ribbons under the rows. Ingredient rows take the tint of
// their strongest link and grey out when nothing uses them; instruction rows
// take their step color and carry a numbered badge and an optional duration.
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithInteraction(),
//	    sink.WithBackground(""),
//	)
//
// # SVG Options
//
//   - [WithBackground]: page fill, or "" for transparent
//   - [WithoutTitle]: drop the recipe name header
//   - [WithoutDurations]: hide duration badges
//   - [WithInteraction]: dim unrelated ribbons when hovering a row
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] generate SVG first and convert it with
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(ctx, scene)
//	png, err := sink.RenderPNG(ctx, scene, sink.WithScale(3))
//
// [render.ToPDF]: github.com/matzehuels/recipeflow/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/recipeflow/pkg/render.ToPNG
package sink
