package types

import (
	"strings"
	"time"
)

// Method is an HTTP method selectable from the request pane
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodHead
	MethodOptions
)

// Methods lists every method in cycle order
var Methods = [...]Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodPatch,
	MethodDelete,
	MethodHead,
	MethodOptions,
}

// String returns the wire name of the method
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodPatch:
		return "PATCH"
	case MethodDelete:
		return "DELETE"
	case MethodHead:
		return "HEAD"
	case MethodOptions:
		return "OPTIONS"
	}
	return "GET"
}

// Next returns the following method, wrapping OPTIONS back to GET
func (m Method) Next() Method {
	return Methods[(int(m)+1)%len(Methods)]
}

// ParseMethod resolves a method name case-insensitively
func ParseMethod(name string) (Method, bool) {
	for _, m := range Methods {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return MethodGet, false
}

// MarshalText implements encoding.TextMarshaler so methods serialize by name
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Request is the request being composed
type Request struct {
	Method Method `json:"method" yaml:"method"`
	URL    string `json:"url" yaml:"url"`
}

// Header is a single response header line. Repeated names appear as
// separate entries.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Cookie is a cookie set by the server through Set-Cookie
type Cookie struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Path     string    `json:"path,omitempty" yaml:"path,omitempty"`
	Domain   string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	MaxAge   int       `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty" yaml:"httpOnly,omitempty"`
	Secure   bool      `json:"secure,omitempty" yaml:"secure,omitempty"`
}

// BodyFormat classifies a response body for display
type BodyFormat string

const (
	FormatJSON   BodyFormat = "json"
	FormatXML    BodyFormat = "xml"
	FormatHTML   BodyFormat = "html"
	FormatText   BodyFormat = "text"
	FormatBinary BodyFormat = "binary"
	FormatError  BodyFormat = "error" // Diagnostic produced by a failed execution
)

// Response is the captured result of one execution. A Response is never
// modified after it is built; a new execution produces a new value.
type Response struct {
	Body       string        `json:"body" yaml:"body"`
	BodyFormat BodyFormat    `json:"bodyFormat" yaml:"bodyFormat"`
	StatusCode int           `json:"statusCode" yaml:"statusCode"`
	StatusText string        `json:"statusText" yaml:"statusText"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
	Size       int64         `json:"size" yaml:"size"` // bytes
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Headers    []Header      `json:"headers" yaml:"headers"`
	Cookies    []Cookie      `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Truncated  bool          `json:"truncated,omitempty" yaml:"truncated,omitempty"` // body cut at the size cap
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the response is a diagnostic for a failed execution
func (r *Response) Failed() bool {
	return r.Error != ""
}

// Header returns the first value of the named header, case-insensitively
func (r *Response) Header(name string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// TLSConfig contains TLS/mTLS settings for outgoing requests
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty" yaml:"cert_file,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"key_file,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// HistoryEntry represents a saved request/response pair
type HistoryEntry struct {
	ID         int64         `json:"id" yaml:"id"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Method     string        `json:"method" yaml:"method"`
	URL        string        `json:"url" yaml:"url"`
	StatusCode int           `json:"statusCode" yaml:"statusCode"`
	StatusText string        `json:"statusText" yaml:"statusText"`
	Headers    []Header      `json:"headers" yaml:"headers"`
	Body       string        `json:"body" yaml:"body"`
	BodyFormat BodyFormat    `json:"bodyFormat" yaml:"bodyFormat"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
	Size       int64         `json:"size" yaml:"size"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}
