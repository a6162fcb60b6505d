package httpcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBeforeRequestMatchesSameRequest(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Accept", "text/html"))
	res := response(200, newHeader("Cache-Control", "max-age=1000"))

	p := newPolicy(req, res)

	same := request("GET", "https://example.com/doc", newHeader("Accept", "text/html"))
	result := p.BeforeRequest(same, baseTime)

	require.True(t, result.Matches())
	require.True(t, result.IsFresh())
}

func TestBeforeRequestDifferentURIDoesNotMatch(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=1000"))

	p := newPolicy(req, res)

	other := request("GET", "https://example.com/other", nil)
	result := p.BeforeRequest(other, baseTime)

	require.False(t, result.Matches())
	require.False(t, result.IsFresh())
}

func TestBeforeRequestHeadMayRevalidateMismatchedMethod(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=1000"))

	p := newPolicy(req, res)

	head := request("HEAD", "https://example.com/doc", nil)
	result := p.BeforeRequest(head, baseTime)

	require.False(t, result.Matches())
	require.False(t, result.IsFresh())
	require.Equal(t, "GET", result.Request().Method())
}

func TestVaryMatchesRequiresSameVariantHeaders(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Accept-Language", "en"))
	res := response(200, newHeader("Cache-Control", "max-age=1000", "Vary", "Accept-Language"))

	p := newPolicy(req, res)

	sameLang := request("GET", "https://example.com/doc", newHeader("Accept-Language", "en"))
	require.True(t, p.BeforeRequest(sameLang, baseTime).Matches())

	otherLang := request("GET", "https://example.com/doc", newHeader("Accept-Language", "fr"))
	require.False(t, p.BeforeRequest(otherLang, baseTime).Matches())
}

func TestVaryStarNeverMatches(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=1000", "Vary", "*"))

	p := newPolicy(req, res)

	same := request("GET", "https://example.com/doc", nil)
	require.False(t, p.BeforeRequest(same, baseTime).Matches())
}

func TestRequestMatchesRequiresSameHost(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Host", "a.example.com"))
	res := response(200, newHeader("Cache-Control", "max-age=1000"))

	p := newPolicy(req, res)

	differentHost := request("GET", "https://example.com/doc", newHeader("Host", "b.example.com"))
	require.False(t, p.BeforeRequest(differentHost, baseTime).Matches())
}
