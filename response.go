package httpcache

import "net/http"

// ResponseLike is the response abstraction a [Policy] is built from. It lets
// callers use *http.Response, [ResponseParts], or any other type exposing
// the same small surface.
type ResponseLike interface {
	// StatusCode returns the response's HTTP status code.
	StatusCode() int

	// Header returns the full response header map.
	Header() http.Header
}

// ResponseParts is a status-and-headers-only response value, returned by
// [Policy.BeforeRequest] (the Fresh case) and [Policy.AfterResponse] as the
// cached response to hand back to the caller, and directly usable as a
// [ResponseLike].
type ResponseParts struct {
	ResponseStatusCode int
	ResponseHeader     http.Header
}

// StatusCode implements [ResponseLike].
func (p ResponseParts) StatusCode() int { return p.ResponseStatusCode }

// Header implements [ResponseLike].
func (p ResponseParts) Header() http.Header { return p.ResponseHeader }

// httpResponse adapts *http.Response to [ResponseLike].
type httpResponse struct {
	resp *http.Response
}

// WrapResponse adapts resp to [ResponseLike] for use with [New], [NewOptions]
// and [Policy.AfterResponse].
func WrapResponse(resp *http.Response) ResponseLike {
	return httpResponse{resp: resp}
}

func (h httpResponse) StatusCode() int { return h.resp.StatusCode }

func (h httpResponse) Header() http.Header { return h.resp.Header }
