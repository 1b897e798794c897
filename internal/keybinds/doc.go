/*
Package keybinds maps (input mode, key) pairs to actions.

# Overview

Every input mode of the application has a Context. A key pressed in a
mode is looked up in that mode's context first and in ContextGlobal
second. A key with no binding in either is not an error: the caller
treats it as a no-op, except while editing the URL where printable keys
insert themselves.

# Components

Registry (registry.go):
  - Context-aware key matching
  - Sorted listings for footer hints and export

Validator (validator.go):
  - Unknown actions
  - Reserved keys (ctrl+c always force quits)
  - Modes left without a way out
  - Global shadowing and printable keys stolen from the URL editor

Defaults (defaults.go):
  - The built-in key table

# Configuration File Format

keybinds.json lives in the config directory. Comments are allowed. Each
section is a context; each entry maps an action to a comma-separated key
list and replaces that action's default keys:

	{
	  "version": "1.0",
	  // send with ctrl+r as well as F5
	  "request": {
	    "execute": "f5,ctrl+r"
	  },
	  "request_response": {
	    "scroll_down": "down,j,ctrl+d"
	  }
	}

Run "wayqa keybinds export" for the full default file and
"wayqa keybinds check" to validate an edited one.
*/
package keybinds
