// Package topic defines event topic names and wildcard matching for the
// grid's event bus.
//
// Topics are colon-separated: "cell:edit:start", "render:body",
// "history:undo". Subscription patterns may use "*" for exactly one segment
// and "**" for any number of segments, so "history:*" receives every
// history plugin event and "**" receives everything.
package topic
