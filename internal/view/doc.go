// Package view derives the ordered index projection of the raw rows.
//
// A view is a slice of raw-row indices after filtering and sorting. It is
// rebuilt from scratch on every sort or filter change; nothing is patched
// incrementally.
package view
