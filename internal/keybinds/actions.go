package keybinds

import "fmt"

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the input mode in which keybindings are active
type Context string

const (
	// Contexts mirror the application's input modes
	ContextGlobal          Context = "global"           // Available everywhere
	ContextNormal          Context = "normal"           // Top-level navigation
	ContextProject         Context = "project"          // Project pane
	ContextRequest         Context = "request"          // Request pane
	ContextRequestURL      Context = "request_url"      // Editing the URL
	ContextRequestParams   Context = "request_params"   // Params tab focused
	ContextRequestResponse Context = "request_response" // Response tab focused
)

// Contexts lists every context in display order
var Contexts = []Context{
	ContextGlobal,
	ContextNormal,
	ContextProject,
	ContextRequest,
	ContextRequestURL,
	ContextRequestParams,
	ContextRequestResponse,
}

// ParseContext resolves a context name such as "request_url"
func ParseContext(name string) (Context, error) {
	for _, c := range Contexts {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown context '%s'", name)
}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)
	ActionBack      Action = "back"       // Leave the current mode

	// Mode changes
	ActionOpenProject  Action = "open_project"  // Enter the project pane
	ActionOpenRequest  Action = "open_request"  // Enter the request pane
	ActionToggleLayout Action = "toggle_layout" // Show or hide the project pane
	ActionNewProject   Action = "new_project"   // Create a project
	ActionEditURL      Action = "edit_url"      // Start editing the URL

	// Request actions
	ActionCycleMethod Action = "cycle_method" // Next HTTP method
	ActionExecute     Action = "execute"      // Send the request

	// Request tab selection
	ActionSelectParams        Action = "select_params"
	ActionSelectAuthorization Action = "select_authorization"
	ActionSelectHeaders       Action = "select_headers"
	ActionSelectBody          Action = "select_body"
	ActionSelectSettings      Action = "select_settings"
	ActionSelectResponse      Action = "select_response"

	// Response tab selection
	ActionResponseBody    Action = "response_body"
	ActionResponseCookies Action = "response_cookies"
	ActionResponseHeaders Action = "response_headers"

	// Response viewing
	ActionScrollUp        Action = "scroll_up"         // Scroll response up
	ActionScrollDown      Action = "scroll_down"       // Scroll response down
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy response body

	// Text input actions
	ActionTextBackspace  Action = "text_backspace"   // Delete before cursor
	ActionTextMoveLeft   Action = "text_move_left"   // Cursor left
	ActionTextMoveRight  Action = "text_move_right"  // Cursor right
	ActionTextPaste      Action = "text_paste"       // Paste clipboard at cursor
	ActionTextInsertChar Action = "text_insert_char" // Insert character (implicit for printable keys)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:                {ActionQuit, "Quit application", "Global"},
	ActionQuitForce:           {ActionQuitForce, "Force quit", "Global"},
	ActionBack:                {ActionBack, "Back", "Global"},
	ActionOpenProject:         {ActionOpenProject, "Project", "Navigation"},
	ActionOpenRequest:         {ActionOpenRequest, "Request", "Navigation"},
	ActionToggleLayout:        {ActionToggleLayout, "Toggle project pane", "Navigation"},
	ActionNewProject:          {ActionNewProject, "New project", "Project"},
	ActionEditURL:             {ActionEditURL, "Edit URL", "Request"},
	ActionCycleMethod:         {ActionCycleMethod, "Change method", "Request"},
	ActionExecute:             {ActionExecute, "Send request", "Request"},
	ActionSelectParams:        {ActionSelectParams, "Params", "Tabs"},
	ActionSelectAuthorization: {ActionSelectAuthorization, "Authorization", "Tabs"},
	ActionSelectHeaders:       {ActionSelectHeaders, "Headers", "Tabs"},
	ActionSelectBody:          {ActionSelectBody, "Body", "Tabs"},
	ActionSelectSettings:      {ActionSelectSettings, "Settings", "Tabs"},
	ActionSelectResponse:      {ActionSelectResponse, "Response", "Tabs"},
	ActionResponseBody:        {ActionResponseBody, "Response body", "Response"},
	ActionResponseCookies:     {ActionResponseCookies, "Response cookies", "Response"},
	ActionResponseHeaders:     {ActionResponseHeaders, "Response headers", "Response"},
	ActionScrollUp:            {ActionScrollUp, "Scroll up", "Response"},
	ActionScrollDown:          {ActionScrollDown, "Scroll down", "Response"},
	ActionCopyToClipboard:     {ActionCopyToClipboard, "Copy body", "Response"},
	ActionTextBackspace:       {ActionTextBackspace, "Delete character", "Text"},
	ActionTextMoveLeft:        {ActionTextMoveLeft, "Cursor left", "Text"},
	ActionTextMoveRight:       {ActionTextMoveRight, "Cursor right", "Text"},
	ActionTextPaste:           {ActionTextPaste, "Paste", "Text"},
	ActionTextInsertChar:      {ActionTextInsertChar, "Insert character", "Text"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the application handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}
