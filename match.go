package httpcache

import (
	"net/http"
	"strings"
)

// requestMatches reports whether req is the same request the policy was
// built from (exactMatch), and whether it may still be used to revalidate
// the stored response (mayRevalidate: true for an exact match, or when req
// is a HEAD that would otherwise match).
func (p Policy) requestMatches(req RequestLike) (exactMatch, mayRevalidate bool) {
	same := req.IsSameURI(p.uri) &&
		p.reqHeader.Get("Host") == req.Header().Get("Host") &&
		p.varyMatches(req)

	exactMatch = same && p.method == strings.ToUpper(req.Method())
	mayRevalidate = exactMatch || (same && strings.ToUpper(req.Method()) == "HEAD")
	return exactMatch, mayRevalidate
}

// varyMatches reports whether req agrees with the original request on every
// header field named by the stored response's Vary header. A Vary of "*"
// never matches.
func (p Policy) varyMatches(req RequestLike) bool {
	for _, raw := range p.resHeader["Vary"] {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "*" {
				return false
			}

			name := http.CanonicalHeaderKey(strings.ToLower(field))
			if req.Header().Get(name) != p.reqHeader.Get(name) {
				return false
			}
		}
	}
	return true
}
