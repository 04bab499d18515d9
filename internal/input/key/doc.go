// Package key defines keyboard events for the grid and parses binding
// specifications such as "Ctrl+Z", "Shift+Tab" or "Enter".
//
// Events are backend-neutral. The terminal backend converts tcell key
// events into key.Event values before they reach the grid.
package key
