package httpcache

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cacheware/httpcachepolicy/internal/httpdate"
)

// hopByHopHeaders are removed whenever headers are forwarded by an
// intermediary. Date is included here because the cached-response
// projection always rewrites it.
var hopByHopHeaders = map[string]bool{
	http.CanonicalHeaderKey("date"):               true,
	http.CanonicalHeaderKey("connection"):         true,
	http.CanonicalHeaderKey("keep-alive"):         true,
	http.CanonicalHeaderKey("proxy-authenticate"):  true,
	http.CanonicalHeaderKey("proxy-authorization"): true,
	http.CanonicalHeaderKey("te"):                  true,
	http.CanonicalHeaderKey("trailer"):             true,
	http.CanonicalHeaderKey("transfer-encoding"):   true,
	http.CanonicalHeaderKey("upgrade"):             true,
}

// excludedFromRevalidationUpdate names headers whose old value is kept even
// when a 304 response supplies a new one, since the old body is reused and
// these describe the body's wire representation, not its meaning.
var excludedFromRevalidationUpdate = map[string]bool{
	http.CanonicalHeaderKey("content-length"):    true,
	http.CanonicalHeaderKey("content-encoding"):  true,
	http.CanonicalHeaderKey("transfer-encoding"): true,
	http.CanonicalHeaderKey("content-range"):     true,
}

// copyWithoutHopByHop returns a copy of h with every hop-by-hop header
// removed, every header named in a Connection directive removed, and any
// 1xx Warning entries filtered out.
func copyWithoutHopByHop(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		if hopByHopHeaders[name] {
			continue
		}
		out[name] = append([]string(nil), values...)
	}

	for _, token := range commaSplit(h["Connection"]) {
		if token == "" {
			continue
		}
		delete(out, http.CanonicalHeaderKey(token))
	}

	filterWarnings(out)

	return out
}

// filterWarnings drops Warning entries whose trimmed text starts with '1'
// (intended to match 1xx warn-codes; as in the reference implementation,
// this also incorrectly matches values like "1000 ..." since it checks only
// the leading byte rather than a numeric range).
func filterWarnings(h http.Header) {
	values, ok := h["Warning"]
	if !ok {
		return
	}

	var kept []string
	for _, entry := range commaSplit(values) {
		if strings.HasPrefix(strings.TrimSpace(entry), "1") {
			continue
		}
		kept = append(kept, entry)
	}

	if len(kept) == 0 {
		delete(h, "Warning")
		return
	}
	h["Warning"] = []string{strings.Join(kept, ", ")}
}

// commaSplit splits each header value on "," and trims the resulting
// tokens, flattening multiple header lines into one token list.
func commaSplit(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out
}

// cachedResponse projects the stored response into the headers to hand back
// to a caller as of now: hop-by-hop headers removed, Age and Date rewritten,
// and (when the heuristic path inflated the freshness lifetime past 24
// hours) an appended 113 warning.
func (p Policy) cachedResponse(now time.Time) ResponseParts {
	headers := copyWithoutHopByHop(p.resHeader)

	age := p.Age(now)
	const day = 24 * time.Hour

	if age > day && !p.hasExplicitExpiration() && p.maxAge() > day {
		headers.Add("Warning", `113 - "rfc7234 5.5.4"`)
	}

	headers.Set("Age", strconv.FormatInt(int64(age/time.Second), 10))
	headers.Set("Date", httpdate.Format(now))

	return ResponseParts{
		ResponseStatusCode: p.status,
		ResponseHeader:     headers,
	}
}
