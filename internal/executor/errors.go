package executor

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Kind classifies an execution failure
type Kind int

const (
	// KindNetwork means no response was received
	KindNetwork Kind = iota
	// KindDecode means a response arrived but its body is not text
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// RequestError is returned by Execute when the execution failed
type RequestError struct {
	Kind Kind
	Err  error
}

func (e *RequestError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message returns an actionable, user-facing description of the failure
func (e *RequestError) Message() string {
	if e.Kind == KindDecode {
		return "Response received but the body cannot be shown as text - " + e.Err.Error()
	}
	return categorizeError(e.Err)
}

// categorizeRequestError analyzes error strings from HTTP requests and provides
// actionable, user-friendly error messages based on the error type.
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "context canceled") ||
		strings.Contains(errLower, "context cancelled") {
		return "Request cancelled"
	}

	if strings.Contains(errLower, "context deadline exceeded") ||
		strings.Contains(errLower, "deadline exceeded") ||
		strings.Contains(errLower, "client.timeout exceeded") {
		return "Request timeout - check URL and try increasing request.timeout in settings.yaml (default: 30s)"
	}

	// Proxy errors (check before connection errors since proxy errors often contain "connection refused")
	if strings.Contains(errLower, "proxyconnect") {
		return "Proxy connection failed - verify HTTP_PROXY/HTTPS_PROXY settings"
	}

	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify hostname is correct and network is available"
	}

	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - check if server is running and port is correct"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server - server may have crashed or network issue occurred"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check network connection and firewall settings"
	}

	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(errStr)
	}

	if strings.Contains(errLower, "stopped after") && strings.Contains(errLower, "redirect") {
		return "Too many redirects - check server configuration or URL"
	}

	if strings.Contains(errLower, "unsupported protocol") ||
		strings.Contains(errLower, "no host in request url") ||
		strings.Contains(errLower, "missing protocol scheme") ||
		strings.Contains(errLower, "invalid url") ||
		strings.Contains(errLower, "invalid control character in url") {
		return "Invalid URL - verify the URL format and protocol (http/https)"
	}

	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - server may have terminated the connection prematurely"
	}

	if strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "timed out") {
		return "Connection timeout - server took too long to respond, try increasing request.timeout"
	}

	if strings.Contains(errLower, "malformed http") {
		return "Malformed HTTP response - the server did not speak HTTP"
	}

	return "Request failed: " + errStr
}

// categorizeSSLError provides specific guidance for TLS/SSL certificate errors
func categorizeSSLError(errStr string) string {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "unknown authority") ||
		strings.Contains(errLower, "certificate is not trusted") {
		return "TLS certificate verification failed - certificate is not trusted. Set request.tls.ca_file or disable verification (--insecure)"
	}

	if strings.Contains(errLower, "expired") {
		return "TLS certificate has expired - contact server administrator or disable verification (--insecure)"
	}

	if strings.Contains(errLower, "certificate is valid for") ||
		strings.Contains(errLower, "doesn't match") {
		return "TLS hostname mismatch - certificate doesn't match the requested hostname"
	}

	if strings.Contains(errLower, "handshake") {
		return "TLS handshake failed - check TLS version compatibility and cipher suites"
	}

	if strings.Contains(errLower, "bad certificate") {
		return "TLS bad certificate - client certificate may be invalid or not accepted by server"
	}

	if strings.Contains(errLower, "certificate required") {
		return "TLS client certificate required - set request.tls.cert_file and key_file"
	}

	return "TLS/SSL error - check certificate configuration and TLS settings: " + errStr
}

// categorizeError unwraps err to its root cause and maps it to a message
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return categorizeRequestError("deadline exceeded")
	}

	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return categorizeSSLError("unknown authority")
	}

	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return categorizeSSLError("certificate is valid for")
	}

	var certErr x509.CertificateInvalidError
	if errors.As(err, &certErr) {
		if certErr.Reason == x509.Expired {
			return categorizeSSLError("expired")
		}
		return "TLS certificate is invalid: " + certErr.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return categorizeRequestError("deadline exceeded")
	}
	if errors.Is(err, context.Canceled) {
		return categorizeRequestError("context canceled")
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if msg := categorizeNetError(opErr); msg != "" {
			return msg
		}
	}

	return categorizeRequestError(err.Error())
}

// categorizeNetError handles syscall level dial failures
func categorizeNetError(e *net.OpError) string {
	if e.Timeout() {
		return "Connection timeout - server took too long to respond, try increasing request.timeout"
	}

	switch {
	case errors.Is(e.Err, syscall.ECONNREFUSED):
		return categorizeRequestError("connection refused")
	case errors.Is(e.Err, syscall.ECONNRESET):
		return categorizeRequestError("connection reset")
	case errors.Is(e.Err, syscall.ENETUNREACH):
		return categorizeRequestError("network is unreachable")
	case errors.Is(e.Err, syscall.EHOSTUNREACH):
		return "Host unreachable - check if server is online and accessible"
	}

	return ""
}
