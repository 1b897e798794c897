package executor

import (
	"net/http"
	"strings"

	"github.com/studiowebux/wayqa/internal/types"
)

// parseCookies reads every Set-Cookie header in order. Malformed lines
// are skipped.
func parseCookies(headers []types.Header) []types.Cookie {
	var cookies []types.Cookie
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "Set-Cookie") {
			continue
		}
		c, err := http.ParseSetCookie(h.Value)
		if err != nil {
			continue
		}
		cookies = append(cookies, types.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			MaxAge:   c.MaxAge,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		})
	}
	return cookies
}
