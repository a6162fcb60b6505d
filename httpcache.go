// Package httpcache implements an HTTP caching policy engine based on RFC
// 7234 (HTTP/1.1 Caching) and the Vary-selection rules of RFC 7231,
// together with a few widely observed quirks (the "immutable" directive,
// and the "pre-check"/"post-check" anti-pattern).
//
// [Policy] is a pure, immutable value object: given the request and
// response of an HTTP exchange and the instant the response was received,
// it answers whether the exchange may be stored, whether a stored response
// still satisfies a later request, and how to build revalidation requests
// and merge 304 responses. It owns no storage, performs no I/O, and never
// reads the system clock itself -- every query takes "now" as an explicit
// argument.
package httpcache

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Policy is the immutable result of evaluating an HTTP request/response
// exchange against the caching rules of RFC 7234. It is safe to share a
// Policy across goroutines: every method takes its own "now" and no method
// mutates the receiver.
type Policy struct {
	uri    *url.URL
	method string
	status int

	reqHeader http.Header
	resHeader http.Header

	reqCC DirectiveSet
	resCC DirectiveSet

	responseTime time.Time
	options      Options
}

// New builds a [Policy] from req and res, using the current time as the
// response time and [DefaultOptions].
func New(req RequestLike, res ResponseLike) Policy {
	return NewOptions(req, res, time.Now(), DefaultOptions())
}

// NewOptions builds a [Policy] from req and res. responseTime is the wall
// clock instant at which res was received (usually time.Now() at the call
// site, passed in explicitly so the policy never reads the clock itself).
func NewOptions(req RequestLike, res ResponseLike, responseTime time.Time, options Options) Policy {
	return newFromDetails(
		req.URI(),
		req.Method(),
		res.StatusCode(),
		req.Header().Clone(),
		res.Header().Clone(),
		responseTime,
		options,
	)
}

// newFromDetails builds a Policy from already-extracted, owned parts,
// applying the cargo-cult purge and Pragma fallback normalization to
// resHeader/resCC before storing them.
func newFromDetails(
	uri *url.URL,
	method string,
	status int,
	reqHeader http.Header,
	resHeader http.Header,
	responseTime time.Time,
	options Options,
) Policy {
	resCC := ParseDirectiveSet(resHeader["Cache-Control"])
	reqCC := ParseDirectiveSet(reqHeader["Cache-Control"])

	// Assume that if someone uses legacy, non-standard, unnecessary
	// directives they don't understand caching, so there's no point
	// strictly honoring the blindly copy-pasted rest of them.
	if options.IgnoreCargoCult && resCC.Has("pre-check") && resCC.Has("post-check") {
		resCC.Remove("pre-check")
		resCC.Remove("post-check")
		resCC.Remove("no-cache")
		resCC.Remove("no-store")
		resCC.Remove("must-revalidate")

		resHeader.Set("Cache-Control", resCC.String())
		resHeader.Del("Expires")
		resHeader.Del("Pragma")
	}

	// When Cache-Control is absent entirely, a "no-cache" Pragma has the
	// same effect as "Cache-Control: no-cache".
	if len(resHeader["Cache-Control"]) == 0 && strings.Contains(resHeader.Get("Pragma"), "no-cache") {
		resCC.Set("no-cache")
	}

	return Policy{
		uri:          uri,
		method:       strings.ToUpper(method),
		status:       status,
		reqHeader:    reqHeader,
		resHeader:    resHeader,
		reqCC:        reqCC,
		resCC:        resCC,
		responseTime: responseTime,
		options:      options,
	}
}
