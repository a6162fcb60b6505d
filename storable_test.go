package httpcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cacheware/httpcachepolicy"
)

func TestIsStorableSimpleHit(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=300"))

	p := newPolicy(req, res)

	require.True(t, p.IsStorable())
}

func TestIsStorableRequestNoStore(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Cache-Control", "no-store"))
	res := response(200, newHeader("Cache-Control", "max-age=300"))

	require.False(t, newPolicy(req, res).IsStorable())
}

func TestIsStorableResponseNoStore(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "no-store, max-age=300"))

	require.False(t, newPolicy(req, res).IsStorable())
}

func TestIsStorablePostRequiresExplicitExpiration(t *testing.T) {
	req := request("POST", "https://example.com/doc", nil)

	withMaxAge := newPolicy(req, response(200, newHeader("Cache-Control", "max-age=60")))
	require.True(t, withMaxAge.IsStorable())

	withoutExpiration := newPolicy(req, response(200, nil))
	require.False(t, withoutExpiration.IsStorable())
}

func TestIsStorablePutNotStorable(t *testing.T) {
	req := request("PUT", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "max-age=60"))

	require.False(t, newPolicy(req, res).IsStorable())
}

func TestIsStorableUnderstoodStatusOnly(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)

	require.True(t, newPolicy(req, response(200, nil)).IsStorable())
	require.False(t, newPolicy(req, response(206, nil)).IsStorable())
	require.False(t, newPolicy(req, response(418, nil)).IsStorable())
}

func TestIsStorableAuthorizationSharedRequiresOptIn(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Authorization", "Bearer xyz"))

	plain := newPolicy(req, response(200, newHeader("Cache-Control", "max-age=60")))
	require.False(t, plain.IsStorable())

	public := newPolicy(req, response(200, newHeader("Cache-Control", "max-age=60, public")))
	require.True(t, public.IsStorable())

	sMaxAge := newPolicy(req, response(200, newHeader("Cache-Control", "s-maxage=60")))
	require.True(t, sMaxAge.IsStorable())
}

func TestIsStorableAuthorizationPrivateCacheIgnoresIt(t *testing.T) {
	req := request("GET", "https://example.com/doc", newHeader("Authorization", "Bearer xyz"))
	res := response(200, newHeader("Cache-Control", "max-age=60"))

	opts := httpcache.DefaultOptions().WithPrivacy(httpcache.PrivacyPrivate)
	require.True(t, newPolicyOpts(req, res, opts).IsStorable())
}

func TestIsStorablePrivateDirectiveSharedCache(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)
	res := response(200, newHeader("Cache-Control", "private, max-age=60"))

	require.False(t, newPolicy(req, res).IsStorable())

	opts := httpcache.DefaultOptions().WithPrivacy(httpcache.PrivacyPrivate)
	require.True(t, newPolicyOpts(req, res, opts).IsStorable())
}

func TestIsStorableDefaultCacheableStatusWithoutFreshnessSignal(t *testing.T) {
	req := request("GET", "https://example.com/doc", nil)

	require.True(t, newPolicy(req, response(404, nil)).IsStorable())
	require.False(t, newPolicy(req, response(403, nil)).IsStorable())
}
