package state

import "github.com/studiowebux/wayqa/internal/keybinds"

// Mode is the active input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeProject
	ModeRequest
	ModeRequestURL
	ModeRequestParamsTab
	ModeRequestResponseTab
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeProject:
		return "Project"
	case ModeRequest:
		return "Request"
	case ModeRequestURL:
		return "Request URL"
	case ModeRequestParamsTab:
		return "Request Params"
	case ModeRequestResponseTab:
		return "Request Response"
	}
	return "Unknown"
}

// Context returns the keybinding context consulted in this mode
func (m Mode) Context() keybinds.Context {
	switch m {
	case ModeNormal:
		return keybinds.ContextNormal
	case ModeProject:
		return keybinds.ContextProject
	case ModeRequest:
		return keybinds.ContextRequest
	case ModeRequestURL:
		return keybinds.ContextRequestURL
	case ModeRequestParamsTab:
		return keybinds.ContextRequestParams
	case ModeRequestResponseTab:
		return keybinds.ContextRequestResponse
	}
	return keybinds.ContextGlobal
}

// InRequest reports whether the request pane has focus
func (m Mode) InRequest() bool {
	switch m {
	case ModeRequest, ModeRequestURL, ModeRequestParamsTab, ModeRequestResponseTab:
		return true
	}
	return false
}
