package httpcache

import (
	"net/http"
	"net/url"
)

// RequestLike is the request abstraction a [Policy] is built from and
// queried against. It lets callers use *http.Request, [RequestParts], or any
// other type exposing the same small surface.
type RequestLike interface {
	// Method returns the HTTP method, e.g. "GET".
	Method() string

	// URI returns the effective request URI.
	URI() *url.URL

	// IsSameURI reports whether this request's effective URI is the same
	// as other. Implementations may use plain string comparison; nothing
	// fancier is required.
	IsSameURI(other *url.URL) bool

	// Header returns the full request header map.
	Header() http.Header
}

// RequestParts is a headers-and-metadata-only request value, returned by
// [Policy.BeforeRequest] as the revalidation request to send to the origin,
// and directly usable as a [RequestLike].
type RequestParts struct {
	RequestMethod string
	RequestURI    *url.URL
	RequestHeader http.Header
}

// Method implements [RequestLike].
func (p RequestParts) Method() string { return p.RequestMethod }

// URI implements [RequestLike].
func (p RequestParts) URI() *url.URL { return p.RequestURI }

// Header implements [RequestLike].
func (p RequestParts) Header() http.Header { return p.RequestHeader }

// IsSameURI implements [RequestLike] by comparing the string form of both
// URIs, treating a nil URI the same as another nil URI.
func (p RequestParts) IsSameURI(other *url.URL) bool {
	return sameURI(p.RequestURI, other)
}

func sameURI(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// httpRequest adapts *http.Request to [RequestLike].
type httpRequest struct {
	req *http.Request
}

// WrapRequest adapts req to [RequestLike] for use with [New], [NewOptions],
// [Policy.BeforeRequest] and [Policy.AfterResponse].
func WrapRequest(req *http.Request) RequestLike {
	return httpRequest{req: req}
}

func (h httpRequest) Method() string { return h.req.Method }

func (h httpRequest) URI() *url.URL { return h.req.URL }

func (h httpRequest) Header() http.Header { return h.req.Header }

func (h httpRequest) IsSameURI(other *url.URL) bool {
	return sameURI(h.req.URL, other)
}

// ToRequestParts copies req's method, URI, and headers into a
// [RequestParts], so e.g. the result of [Policy.BeforeRequest]'s
// revalidation request can be inspected or replayed without holding onto
// the original [RequestLike].
func ToRequestParts(req RequestLike) RequestParts {
	return RequestParts{
		RequestMethod: req.Method(),
		RequestURI:    req.URI(),
		RequestHeader: req.Header(),
	}
}
