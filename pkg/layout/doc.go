// Package layout positions ingredient and instruction rows on a page and
// reports their rectangles for the flow builder.
//
// Two modes are supported:
//
//   - [ModeColumns]: ingredients in a left column, instructions in a right
//     column, ribbons in the gutter between them. Suited to wide output.
//   - [ModeStacked]: ingredients in a panel at the top left, instructions
//     below it and indented to the right. Suited to narrow output.
//
// In both modes every ingredient's right edge lies left of every
// instruction's left edge, so ribbons always run left to right.
//
// Text is not measured with real font metrics. Widths are estimated from
// the font size and a fixed per-character ratio, the same way the renderer
// sizes its labels; instruction rows grow to fit their wrapped description.
//
//	l, err := layout.Build(r, layout.DefaultOptions())
//	shapes := flow.BuildShapes(links, r.Ingredients, r.Instructions, l.Ingredients, l.Instructions)
package layout
