package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalBindings(r)
	registerProjectBindings(r)
	registerRequestBindings(r)
	registerURLBindings(r)
	registerParamsBindings(r)
	registerResponseBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

func registerNormalBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)
	r.Register(ContextNormal, "p", ActionOpenProject)
	r.Register(ContextNormal, "r", ActionOpenRequest)
	r.Register(ContextNormal, "l", ActionToggleLayout)
}

func registerProjectBindings(r *Registry) {
	r.Register(ContextProject, "esc", ActionBack)
	r.Register(ContextProject, "n", ActionNewProject)
}

func registerRequestBindings(r *Registry) {
	r.Register(ContextRequest, "esc", ActionBack)
	r.Register(ContextRequest, "u", ActionEditURL)
	r.Register(ContextRequest, "m", ActionCycleMethod)
	r.Register(ContextRequest, "f5", ActionExecute)

	r.Register(ContextRequest, "1", ActionSelectParams)
	r.Register(ContextRequest, "2", ActionSelectAuthorization)
	r.Register(ContextRequest, "3", ActionSelectHeaders)
	r.Register(ContextRequest, "4", ActionSelectBody)
	r.Register(ContextRequest, "5", ActionSelectSettings)
	r.Register(ContextRequest, "6", ActionSelectResponse)
}

// registerURLBindings sets up editing keys. Printable keys without a
// binding insert themselves.
func registerURLBindings(r *Registry) {
	r.RegisterMultiple(ContextRequestURL, []string{"tab", "esc"}, ActionBack)
	r.Register(ContextRequestURL, "left", ActionTextMoveLeft)
	r.Register(ContextRequestURL, "right", ActionTextMoveRight)
	r.Register(ContextRequestURL, "backspace", ActionTextBackspace)
	r.RegisterMultiple(ContextRequestURL, []string{"ctrl+v", "shift+insert"}, ActionTextPaste)
}

func registerParamsBindings(r *Registry) {
	r.Register(ContextRequestParams, "esc", ActionBack)
}

func registerResponseBindings(r *Registry) {
	r.Register(ContextRequestResponse, "esc", ActionBack)
	r.Register(ContextRequestResponse, "7", ActionResponseBody)
	r.Register(ContextRequestResponse, "8", ActionResponseCookies)
	r.Register(ContextRequestResponse, "9", ActionResponseHeaders)
	r.RegisterMultiple(ContextRequestResponse, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextRequestResponse, []string{"down", "j"}, ActionScrollDown)
	r.Register(ContextRequestResponse, "c", ActionCopyToClipboard)
}
