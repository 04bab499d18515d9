// Package state holds the grid's mutable state behind a copy-on-write
// manager.
//
// Every mutation runs through Manager.Set or Manager.Batch. The manager swaps
// in a new State value and emits one "state:change" event on the bus, so
// observers always see a state whose fields agree with each other.
package state
