package state

// RequestTab is the pane shown inside the request view
type RequestTab int

const (
	RequestTabParams RequestTab = iota
	RequestTabAuthorization
	RequestTabHeaders
	RequestTabBody
	RequestTabSettings
	RequestTabResponse
)

// RequestTabs lists the request tabs in display order
var RequestTabs = [...]RequestTab{
	RequestTabParams,
	RequestTabAuthorization,
	RequestTabHeaders,
	RequestTabBody,
	RequestTabSettings,
	RequestTabResponse,
}

// RequestTabAt returns the tab displayed at index i. It panics when i is
// out of range.
func RequestTabAt(i int) RequestTab {
	return RequestTabs[i]
}

// Index returns the zero-based display position
func (t RequestTab) Index() int {
	return int(t)
}

func (t RequestTab) Title() string {
	switch t {
	case RequestTabParams:
		return "Params"
	case RequestTabAuthorization:
		return "Authorization"
	case RequestTabHeaders:
		return "Headers"
	case RequestTabBody:
		return "Body"
	case RequestTabSettings:
		return "Settings"
	case RequestTabResponse:
		return "Response"
	}
	return ""
}

// ResponseTab is the pane shown inside the response view
type ResponseTab int

const (
	ResponseTabBody ResponseTab = iota
	ResponseTabCookies
	ResponseTabHeaders
)

// ResponseTabs lists the response tabs in display order
var ResponseTabs = [...]ResponseTab{
	ResponseTabBody,
	ResponseTabCookies,
	ResponseTabHeaders,
}

// ResponseTabAt returns the tab displayed at index i. It panics when i is
// out of range.
func ResponseTabAt(i int) ResponseTab {
	return ResponseTabs[i]
}

// Index returns the zero-based display position
func (t ResponseTab) Index() int {
	return int(t)
}

func (t ResponseTab) Title() string {
	switch t {
	case ResponseTabBody:
		return "Body"
	case ResponseTabCookies:
		return "Cookies"
	case ResponseTabHeaders:
		return "Headers"
	}
	return ""
}
