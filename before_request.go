package httpcache

import (
	"net/http"
	"strings"
	"time"
)

// BeforeRequest is the result of [Policy.BeforeRequest]: either the stored
// response is Fresh and can be served without contacting the origin, or it
// is Stale and the caller should send Request to the origin first.
type BeforeRequest struct {
	fresh    bool
	response ResponseParts
	request  RequestParts
	matches  bool
}

// IsFresh reports whether the stored response can be served as-is.
func (b BeforeRequest) IsFresh() bool { return b.fresh }

// Response returns the cached response parts to serve, valid only when
// [BeforeRequest.IsFresh] is true.
func (b BeforeRequest) Response() ResponseParts { return b.response }

// Request returns the request to send to the origin to revalidate the
// stored response, valid only when [BeforeRequest.IsFresh] is false.
func (b BeforeRequest) Request() RequestParts { return b.request }

// Matches reports whether the presented request is semantically the same
// as the one the policy was built from. If false, the request was for some
// other resource (a different URI, method, or Vary-selected header) and the
// stored response cannot be used to satisfy it at all, only to send along
// as a conditional revalidation when that happens to help.
func (b BeforeRequest) Matches() bool { return b.matches }

// BeforeRequest decides whether the stored response satisfies req as of
// now, without contacting the origin.
func (p Policy) BeforeRequest(req RequestLike, now time.Time) BeforeRequest {
	exactMatch, mayRevalidate := p.requestMatches(req)

	if exactMatch && p.satisfiesWithoutRevalidation(req, now) {
		return BeforeRequest{fresh: true, response: p.cachedResponse(now), matches: true}
	}

	if mayRevalidate {
		return BeforeRequest{request: p.revalidationRequest(req), matches: exactMatch}
	}

	return BeforeRequest{request: p.requestFromHeaders(copyWithoutHopByHop(req.Header())), matches: exactMatch}
}

// satisfiesWithoutRevalidation implements RFC 7234 section 4's "reuse
// without validation" test, given that the request already matches.
func (p Policy) satisfiesWithoutRevalidation(req RequestLike, now time.Time) bool {
	reqHeader := req.Header()
	reqCC := ParseDirectiveSet(reqHeader["Cache-Control"])

	if reqCC.Has("no-cache") || strings.Contains(reqHeader.Get("Pragma"), "no-cache") {
		return false
	}

	if d, ok := reqCC.DeltaSeconds("max-age"); ok && p.Age(now) > d {
		return false
	}

	if d, ok := reqCC.DeltaSeconds("min-fresh"); ok && p.TimeToLive(now) < d {
		return false
	}

	if p.IsStale(now) {
		allowsStale := reqCC.Has("max-stale") && !p.resCC.Has("must-revalidate")
		if allowsStale {
			if v, hasValue := reqCC.Value("max-stale"); hasValue {
				if d, err := ParseDeltaSeconds(v); err == nil && d < p.Age(now)-p.maxAge() {
					allowsStale = false
				}
			}
		}
		if !allowsStale {
			return false
		}
	}

	return true
}

// revalidationRequest builds the conditional request to send to the origin
// to revalidate the stored response, from req's headers.
func (p Policy) revalidationRequest(req RequestLike) RequestParts {
	headers := copyWithoutHopByHop(req.Header())

	// Range requests are not supported by this engine.
	headers.Del("If-Range")

	if !p.IsStorable() {
		headers.Del("If-None-Match")
		headers.Del("If-Modified-Since")
		return p.requestFromHeaders(headers)
	}

	if etag := p.resHeader.Get("ETag"); etag != "" {
		if existing := headers.Get("If-None-Match"); existing != "" {
			headers.Set("If-None-Match", existing+", "+etag)
		} else {
			headers.Set("If-None-Match", etag)
		}
	}

	forbidsWeakValidators := p.method != "GET" ||
		headers.Get("Accept-Ranges") != "" ||
		headers.Get("If-Match") != "" ||
		headers.Get("If-Unmodified-Since") != ""

	if forbidsWeakValidators {
		headers.Del("If-Modified-Since")

		var strong []string
		for _, tag := range commaSplit(headers["If-None-Match"]) {
			if tag == "" || strings.HasPrefix(strings.TrimSpace(tag), "W/") {
				continue
			}
			strong = append(strong, tag)
		}
		if len(strong) == 0 {
			headers.Del("If-None-Match")
		} else {
			headers.Set("If-None-Match", strings.Join(strong, ", "))
		}
	} else if headers.Get("If-Modified-Since") == "" {
		if lastModified := p.resHeader.Get("Last-Modified"); lastModified != "" {
			headers.Set("If-Modified-Since", lastModified)
		}
	}

	return p.requestFromHeaders(headers)
}

// requestFromHeaders wraps headers with the stored policy's method and URI,
// matching RFC 7234's expectation that a revalidation request targets the
// same resource as the originally cached request.
func (p Policy) requestFromHeaders(headers http.Header) RequestParts {
	return RequestParts{
		RequestMethod: p.method,
		RequestURI:    p.uri,
		RequestHeader: headers,
	}
}
