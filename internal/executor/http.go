package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/studiowebux/wayqa/internal/types"
)

// MaxBodySize caps how much of a response body is read into memory
const MaxBodySize = 32 << 20

// HTTPOptions configures an HTTPSender
type HTTPOptions struct {
	Timeout         time.Duration
	FollowRedirects bool
	TLS             *types.TLSConfig
	MaxBodySize     int64 // defaults to MaxBodySize
}

// HTTPSender is the net/http implementation of Sender
type HTTPSender struct {
	client  *http.Client
	maxBody int64
}

// NewHTTPSender builds a sender with optional TLS/mTLS configuration
func NewHTTPSender(opts HTTPOptions) (*HTTPSender, error) {
	client, err := buildHTTPClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = MaxBodySize
	}
	return &HTTPSender{client: client, maxBody: maxBody}, nil
}

// Send performs the request with an empty body
func (s *HTTPSender) Send(ctx context.Context, method types.Method, url string) (*RawResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method.String(), url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "wayqa")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, truncated, err := readBody(resp.Body, s.maxBody)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{
		StatusCode:    resp.StatusCode,
		StatusText:    statusText(resp),
		Headers:       flattenHeaders(resp.Header),
		Body:          body,
		ContentLength: resp.ContentLength,
		Truncated:     truncated,
	}, nil
}

// readBody reads at most limit bytes and reports whether more followed
func readBody(r io.Reader, limit int64) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

// statusText extracts the reason phrase from "200 OK"
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// flattenHeaders lists headers sorted by name, one entry per value.
// net/http does not keep wire order across names; values of one name stay
// in received order.
func flattenHeaders(h http.Header) []types.Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers []types.Header
	for _, name := range names {
		for _, value := range h[name] {
			headers = append(headers, types.Header{Name: name, Value: value})
		}
	}
	return headers
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(opts HTTPOptions) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig := opts.TLS; tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		// Load CA certificate if provided (for server verification)
		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, errors.New("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client, nil
}
