package tui

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/studiowebux/wayqa/internal/types"
)

const (
	highlightStyle     = "catppuccin-mocha"
	highlightFormatter = "terminal256"
)

// lexerFor picks a chroma lexer for a decoded body, or nil for plain text
func lexerFor(format types.BodyFormat) chroma.Lexer {
	switch format {
	case types.FormatJSON:
		return lexers.Get("json")
	case types.FormatXML:
		return lexers.Get("xml")
	case types.FormatHTML:
		return lexers.Get("html")
	}
	return nil
}

// highlight pretty-prints and colorizes a response body. Bodies that
// cannot be highlighted are returned unchanged.
func highlight(body string, format types.BodyFormat) string {
	lexer := lexerFor(format)
	if lexer == nil {
		return body
	}

	if format == types.FormatJSON {
		body = prettyJSON(body)
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get(highlightFormatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, body)
	if err != nil {
		return body
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return body
	}
	return sb.String()
}

// prettyJSON indents valid JSON and leaves anything else alone
func prettyJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}
