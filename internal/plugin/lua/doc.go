// Package lua runs grid plugins written in Lua on gopher-lua.
//
// A plugin script returns a definition table:
//
//	return {
//	  name = "highlight",
//	  dependencies = { "history" },
//	  init = function(grid, options)
//	    grid.on("cell:edit", function(ev) grid.log("edited " .. ev.ColumnID) end)
//	    grid.extend("shout", function(s) return string.upper(s) end)
//	    return { count = 0 }
//	  end,
//	  destroy = function(instance) end,
//	}
//
// Load and LoadString turn a script into a plugin.Plugin. Each plugin gets
// its own LState with only the base, table, string and math libraries; file
// loading and require are removed. Every entry into Lua runs under an
// execution timeout.
//
// gopher-lua states are not goroutine-safe. A Plugin must only be driven
// from the goroutine that owns its table, which is the grid's model anyway.
package lua
