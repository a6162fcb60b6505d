package httpcache

import "time"

// Privacy controls whether a [Policy] evaluates a response from the
// perspective of a shared cache (a proxy or CDN serving many users) or a
// private cache (a single user agent, e.g. a browser or a single-tenant
// client).
type Privacy uint8

const (
	// PrivacyShared evaluates the response as a shared cache would: the
	// "private" response directive is not storable, "s-maxage" is
	// respected, and an unauthenticated "Authorization" request header
	// requires explicit opt-in from the response to allow storage.
	PrivacyShared Privacy = iota

	// PrivacyPrivate evaluates the response as a single-user cache would:
	// "private" is storable, "s-maxage" is ignored, "Authorization" never
	// bars storage, and "proxy-revalidate" has no effect.
	PrivacyPrivate
)

// IsShared reports whether p is [PrivacyShared].
func (p Privacy) IsShared() bool { return p == PrivacyShared }

// IsPrivate reports whether p is [PrivacyPrivate].
func (p Privacy) IsPrivate() bool { return p == PrivacyPrivate }

// String implements the [fmt.Stringer] interface.
func (p Privacy) String() string {
	if p.IsPrivate() {
		return "private"
	}
	return "shared"
}

// Options configures the behavior of a [Policy]. The zero value is not
// valid; use [DefaultOptions] to obtain a populated value.
type Options struct {
	// Privacy selects whether the policy behaves as a shared or private
	// cache. See [Privacy].
	Privacy Privacy

	// CacheHeuristic is the fraction of (server Date - Last-Modified) used
	// as a heuristic freshness lifetime when the response carries no
	// explicit expiration. The default is 0.1 (10%), matching common
	// browser behavior.
	CacheHeuristic float64

	// ImmutableMinTimeToLive is the minimum freshness lifetime granted when
	// the response carries the "immutable" directive. It floors lifetimes
	// derived from Expires or the Last-Modified heuristic (and applies when
	// neither is present); an explicit max-age or s-maxage is used as is.
	ImmutableMinTimeToLive time.Duration

	// IgnoreCargoCult, when true, strips the "pre-check", "post-check",
	// "no-cache", "no-store", and "must-revalidate" response directives
	// (and removes the Expires and Pragma response headers) whenever both
	// "pre-check" and "post-check" are present, on the assumption that
	// whoever copy-pasted them did not understand caching.
	IgnoreCargoCult bool
}

// DefaultOptions returns the default [Options]: a shared cache, a 10% cache
// heuristic, a 24 hour immutable minimum TTL, and cargo-cult directives left
// untouched.
func DefaultOptions() Options {
	return Options{
		Privacy:                PrivacyShared,
		CacheHeuristic:         0.1,
		ImmutableMinTimeToLive: 24 * time.Hour,
		IgnoreCargoCult:        false,
	}
}

// WithPrivacy returns a copy of o with Privacy set to p.
func (o Options) WithPrivacy(p Privacy) Options {
	o.Privacy = p
	return o
}

// WithCacheHeuristic returns a copy of o with CacheHeuristic set to f.
func (o Options) WithCacheHeuristic(f float64) Options {
	o.CacheHeuristic = f
	return o
}

// WithImmutableMinTimeToLive returns a copy of o with ImmutableMinTimeToLive
// set to d.
func (o Options) WithImmutableMinTimeToLive(d time.Duration) Options {
	o.ImmutableMinTimeToLive = d
	return o
}

// WithIgnoreCargoCult returns a copy of o with IgnoreCargoCult set to v.
func (o Options) WithIgnoreCargoCult(v bool) Options {
	o.IgnoreCargoCult = v
	return o
}
