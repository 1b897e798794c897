package executor

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/studiowebux/wayqa/internal/types"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrNotText is returned for bodies that cannot be shown as text
var ErrNotText = errors.New("response body is not text")

// fallbackEncodings are tried, in order, on textual bodies that are not
// valid UTF-8 and declare no usable charset
var fallbackEncodings = []string{"windows-1252", "iso-8859-1", "shift-jis", "gbk", "big5"}

// decodeBody converts body to UTF-8 text according to contentType
func decodeBody(contentType string, body []byte) (string, types.BodyFormat, error) {
	mediaType, params, _ := mime.ParseMediaType(contentType)
	format := detectFormat(mediaType, body)

	if len(body) == 0 {
		return "", format, nil
	}

	if charset := strings.ToLower(params["charset"]); charset != "" && charset != "utf-8" && charset != "utf8" {
		if decoded, err := transcode(charset, body); err == nil {
			return decoded, format, nil
		}
	}

	if format != types.FormatBinary && utf8.Valid(body) {
		return string(body), format, nil
	}

	if format != types.FormatBinary {
		for _, enc := range fallbackEncodings {
			if decoded, err := transcode(enc, body); err == nil {
				return decoded, format, nil
			}
		}
	}

	kind := mediaType
	if kind == "" {
		kind = "unknown type"
	}
	return "", types.FormatBinary, fmt.Errorf("%w: %s of %s", ErrNotText, humanize.Bytes(uint64(len(body))), kind)
}

// transcode decodes body from the named encoding into UTF-8
func transcode(name string, body []byte) (string, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", name, err)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s body: %w", name, err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("%s body did not decode to valid text", name)
	}
	return string(decoded), nil
}

// detectFormat classifies a body from its media type, sniffing the
// content when the server did not say
func detectFormat(mediaType string, body []byte) types.BodyFormat {
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return types.FormatJSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return types.FormatHTML
	case mediaType == "application/xml" || mediaType == "text/xml" || strings.HasSuffix(mediaType, "+xml"):
		return types.FormatXML
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/javascript",
		mediaType == "application/x-www-form-urlencoded",
		mediaType == "application/yaml":
		return types.FormatText
	case mediaType == "":
		return sniffFormat(body)
	}
	return types.FormatBinary
}

func sniffFormat(body []byte) types.BodyFormat {
	if bytes.IndexByte(body, 0) >= 0 {
		return types.FormatBinary
	}
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return types.FormatText
	case trimmed[0] == '{' || trimmed[0] == '[':
		return types.FormatJSON
	case bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")), bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")):
		return types.FormatHTML
	case trimmed[0] == '<':
		return types.FormatXML
	}
	return types.FormatText
}
