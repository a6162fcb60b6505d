package httpcache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBeforeRequestMustRevalidateAfterMaxStale(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=10, must-revalidate"))

	p := newPolicy(req, res)
	stale := request("GET", "https://example.com/doc", newHeader("Cache-Control", "max-stale=1000"))

	result := p.BeforeRequest(stale, baseTime.Add(time.Hour))

	require.True(t, result.Matches())
	require.False(t, result.IsFresh(), "must-revalidate forbids serving stale even with max-stale")
}

func TestBeforeRequestMaxStaleAllowsServingWithoutMustRevalidate(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=10"))

	p := newPolicy(req, res)
	stale := request("GET", "https://example.com/doc", newHeader("Cache-Control", "max-stale=1000"))

	result := p.BeforeRequest(stale, baseTime.Add(20*time.Second))

	require.True(t, result.IsFresh())
}

func TestBeforeRequestRequestNoCacheForcesRevalidation(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=1000"))

	p := newPolicy(req, res)
	noCache := request("GET", "https://example.com/doc", newHeader("Cache-Control", "no-cache"))

	result := p.BeforeRequest(noCache, baseTime)
	require.False(t, result.IsFresh())
	require.True(t, result.Matches())
}

func TestRevalidationRequestCarriesETagAsIfNoneMatch(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=10", "ETag", `"abc123"`))

	p := newPolicy(req, res)
	result := p.BeforeRequest(request("GET", "https://example.com/doc", nil), baseTime.Add(time.Hour))

	require.False(t, result.IsFresh())
	require.Equal(t, `"abc123"`, result.Request().Header().Get("If-None-Match"))
}

func TestRevalidationRequestCarriesLastModifiedAsIfModifiedSince(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	lastMod := "Mon, 01 Jan 2024 00:00:00 GMT"
	res := response(200, newHeader("Cache-Control", "max-age=10", "Last-Modified", lastMod))

	p := newPolicy(req, res)
	result := p.BeforeRequest(request("GET", "https://example.com/doc", nil), baseTime.Add(time.Hour))

	require.Equal(t, lastMod, result.Request().Header().Get("If-Modified-Since"))
}

func TestRevalidationRequestDropsWeakValidatorsWhenForbidden(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=10", "ETag", `W/"weak"`))

	p := newPolicy(req, res)
	withIfMatch := request("GET", "https://example.com/doc", newHeader("If-Match", `"must-be-strong"`))
	result := p.BeforeRequest(withIfMatch, baseTime.Add(time.Hour))

	require.Empty(t, result.Request().Header().Get("If-None-Match"))
	require.Empty(t, result.Request().Header().Get("If-Modified-Since"))
}

func TestRevalidationRequestOnNonStorablePolicyDropsValidators(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Cache-Control", "no-store"))
	res := response(200, newHeader("Cache-Control", "max-age=10", "ETag", `"abc"`))

	p := newPolicy(req, res)
	require.False(t, p.IsStorable())

	result := p.BeforeRequest(request("GET", "https://example.com/doc", nil), baseTime.Add(time.Hour))
	require.Empty(t, result.Request().Header().Get("If-None-Match"))
}
