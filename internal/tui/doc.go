/*
Package tui implements the terminal user interface for WAYQA.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: wraps state.State, which owns every piece of application state
  - Update: turns messages into state transitions and commands
  - View: renders the current state to the terminal

# Key Components

  - model.go: Model struct, message types and the Update loop
  - keys.go: Keyboard input, paste handling and clipboard commands
  - render.go: Layout, tab bars, response panes and the status bar
  - highlight.go: Syntax highlighting for response bodies

# Threading Model

The TUI runs in a single goroutine (Bubble Tea's event loop). A request
runs on the executor's own goroutine; while it is in flight the model
schedules tick messages, and each tick polls for the outcome without
blocking. Clipboard access runs inside tea.Cmd functions and reports back
through messages, so state is only ever touched from Update.
*/
package tui
