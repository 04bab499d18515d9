// Package core provides the cell-surface primitives shared by the renderer
// and its backends: colors, styles, cells, rectangles and display widths.
package core
