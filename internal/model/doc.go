// Package model defines the grid's data model: rows, column definitions,
// stable row identity, dot-path field access and type coercion.
//
// Rows are host-owned maps. The grid references them and never copies them
// except for explicit snapshots; edits write through to the same map.
package model
