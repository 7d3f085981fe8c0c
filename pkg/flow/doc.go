// Package flow turns ingredient→instruction links into fillable ribbon shapes.
//
// # Overview
//
// A ribbon connects the right edge of an ingredient row to the left edge of
// an instruction row. Its outline is:
//
//	top-start ──curve──▶ top-end
//	                        │
//	bottom-start ◀─curve── bottom-end
//
// The top curve bows upward and the bottom curve bows downward by
// [Builder.ApexLength], giving a lens-shaped band. Each curve is a single
// quadratic Bézier split at its midpoint into two chained segments, so the
// join is smooth.
//
// # Colors
//
// Fill color depends only on the instruction's step number, via a fixed
// 10-entry [Palette]: every ribbon that ends at the same step shares a color,
// and step 1 and step 11 look the same. Opacity is derived from the link's
// confidence with a 40% floor so weak links stay visible.
//
// # Usage
//
// Rectangles come from the layout pass and are keyed by list index:
//
//	shapes := flow.BuildShapes(links, r.Ingredients, r.Instructions, ingRects, insRects)
//	for _, s := range shapes {
//	    fmt.Fprintf(w, `<path d="%s" fill="%s" fill-opacity="%.3f"/>`,
//	        s.Path.SVG(), s.Color.Hex, s.Opacity)
//	}
//
// Links whose rectangles are missing are skipped. A link that points past the
// end of the instruction list is a programming error and panics.
package flow
