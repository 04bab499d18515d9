// Package viewport maps a scroll position onto the window of view rows that
// must be materialized.
//
// Row height is fixed. Variable heights would need a prefix-sum structure
// over row heights (a Fenwick tree is the usual choice) in place of the
// divisions in ComputeRange.
package viewport
