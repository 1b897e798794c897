package state

import (
	"unicode"
	"unicode/utf8"

	"github.com/studiowebux/wayqa/internal/keybinds"
)

// Effect is work the event loop performs after a dispatch
type Effect int

const (
	EffectNone Effect = iota
	EffectQuit
	EffectRequestStarted // start ticking until Running is false
	EffectCopyResponse   // copy Response().Body to the clipboard
	EffectPaste          // read the clipboard and call InsertText
)

// Dispatch resolves key in the current mode and applies the transition.
// Keys with no meaning in the current mode leave the State untouched.
func (s *State) Dispatch(key string) Effect {
	action, ok := s.registry.Match(s.mode.Context(), key)
	if !ok {
		if s.mode == ModeRequestURL {
			s.insertKey(key)
		}
		return EffectNone
	}

	if action == keybinds.ActionQuitForce {
		return EffectQuit
	}

	switch s.mode {
	case ModeNormal:
		return s.dispatchNormal(action)
	case ModeProject:
		s.dispatchProject(action)
	case ModeRequest:
		return s.dispatchRequest(action)
	case ModeRequestURL:
		return s.dispatchURL(action)
	case ModeRequestParamsTab:
		if action == keybinds.ActionBack {
			s.setMode(ModeRequest)
		}
	case ModeRequestResponseTab:
		return s.dispatchResponse(action)
	}
	return EffectNone
}

func (s *State) dispatchNormal(action keybinds.Action) Effect {
	switch action {
	case keybinds.ActionQuit:
		return EffectQuit
	case keybinds.ActionOpenProject:
		s.setMode(ModeProject)
	case keybinds.ActionOpenRequest:
		s.setMode(ModeRequest)
	case keybinds.ActionToggleLayout:
		s.toggleLayout()
	}
	return EffectNone
}

func (s *State) dispatchProject(action keybinds.Action) {
	switch action {
	case keybinds.ActionBack:
		s.setMode(ModeNormal)
	case keybinds.ActionNewProject:
		s.status = "Projects cannot be created yet"
		s.setMode(ModeNormal)
	}
}

func (s *State) dispatchRequest(action keybinds.Action) Effect {
	switch action {
	case keybinds.ActionBack:
		s.setMode(ModeNormal)
	case keybinds.ActionEditURL:
		s.setMode(ModeRequestURL)
	case keybinds.ActionCycleMethod:
		s.cycleMethod()
	case keybinds.ActionExecute:
		return s.execute()
	case keybinds.ActionSelectParams:
		s.requestTab = RequestTabParams
		s.setMode(ModeRequestParamsTab)
	case keybinds.ActionSelectAuthorization:
		s.requestTab = RequestTabAuthorization
	case keybinds.ActionSelectHeaders:
		s.requestTab = RequestTabHeaders
	case keybinds.ActionSelectBody:
		s.requestTab = RequestTabBody
	case keybinds.ActionSelectSettings:
		s.requestTab = RequestTabSettings
	case keybinds.ActionSelectResponse:
		s.requestTab = RequestTabResponse
		s.setMode(ModeRequestResponseTab)
	}
	return EffectNone
}

func (s *State) dispatchURL(action keybinds.Action) Effect {
	switch action {
	case keybinds.ActionBack:
		s.setMode(ModeRequest)
	case keybinds.ActionTextMoveLeft:
		s.url.MoveLeft()
	case keybinds.ActionTextMoveRight:
		s.url.MoveRight()
	case keybinds.ActionTextBackspace:
		s.url.DeleteBefore()
	case keybinds.ActionTextPaste:
		return EffectPaste
	}
	return EffectNone
}

func (s *State) dispatchResponse(action keybinds.Action) Effect {
	switch action {
	case keybinds.ActionBack:
		s.setMode(ModeRequest)
	case keybinds.ActionResponseBody:
		s.selectResponseTab(ResponseTabBody)
	case keybinds.ActionResponseCookies:
		s.selectResponseTab(ResponseTabCookies)
	case keybinds.ActionResponseHeaders:
		s.selectResponseTab(ResponseTabHeaders)
	case keybinds.ActionScrollUp:
		s.scroll(-1)
	case keybinds.ActionScrollDown:
		s.scroll(1)
	case keybinds.ActionCopyToClipboard:
		if s.response != nil {
			return EffectCopyResponse
		}
	}
	return EffectNone
}

func (s *State) selectResponseTab(t ResponseTab) {
	if s.responseTab != t {
		s.resetScroll()
	}
	s.responseTab = t
}

// insertKey inserts a single printable character. Named keys such as
// "enter" or "home" are ignored.
func (s *State) insertKey(key string) {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || r == utf8.RuneError || !unicode.IsPrint(r) {
		return
	}
	s.url.Insert(r)
}
