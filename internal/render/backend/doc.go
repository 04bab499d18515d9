// Package backend abstracts the cell surface the grid draws on.
//
// Terminal drives a real terminal through tcell. Memory keeps cells in a
// slice and is used by tests and headless exports.
package backend
