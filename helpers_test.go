package httpcache_test

import (
	"net/http"
	"net/url"
	"time"

	"github.com/cacheware/httpcachepolicy"
)

func newHeader(pairs ...string) http.Header {
	h := make(http.Header)
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

func request(method, rawURL string, h http.Header) httpcache.RequestParts {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	if h == nil {
		h = make(http.Header)
	}
	return httpcache.RequestParts{RequestMethod: method, RequestURI: u, RequestHeader: h}
}

func response(status int, h http.Header) httpcache.ResponseParts {
	if h == nil {
		h = make(http.Header)
	}
	return httpcache.ResponseParts{ResponseStatusCode: status, ResponseHeader: h}
}

var baseTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

func newPolicy(req httpcache.RequestParts, res httpcache.ResponseParts) httpcache.Policy {
	return httpcache.NewOptions(req, res, baseTime, httpcache.DefaultOptions())
}

func newPolicyOpts(req httpcache.RequestParts, res httpcache.ResponseParts, opts httpcache.Options) httpcache.Policy {
	return httpcache.NewOptions(req, res, baseTime, opts)
}
