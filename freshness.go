package httpcache

import (
	"strings"
	"time"

	"github.com/cacheware/httpcachepolicy/internal/httpdate"
)

// Age reports how long the response has been sitting in cache(s) as of now:
// the Age header value (if any) plus however long has elapsed since
// responseTime. It never goes backward and never goes negative, even if now
// precedes the policy's response time (clock skew is clamped to zero
// resident time).
func (p Policy) Age(now time.Time) time.Duration {
	age := p.ageHeaderValue()
	if resident := now.Sub(p.responseTime); resident > 0 {
		age += resident
	}
	return age
}

func (p Policy) ageHeaderValue() time.Duration {
	raw := p.resHeader.Get("Age")
	if raw == "" {
		return 0
	}
	d, err := ParseDeltaSeconds(raw)
	if err != nil {
		return 0
	}
	return d
}

// rawServerDate returns the response's Date header, or responseTime if Date
// is absent or unparseable.
func (p Policy) rawServerDate() time.Time {
	if raw := p.resHeader.Get("Date"); raw != "" {
		if d, err := httpdate.Parse(raw); err == nil {
			return d
		}
	}
	return p.responseTime
}

// maxAge returns the applicable freshness lifetime (explicit or
// heuristic), in the order specified by RFC 7234 section 4.2.1. It is not
// exported: callers observe freshness through [Policy.TimeToLive] and
// [Policy.IsStale], which fold in the current age.
func (p Policy) maxAge() time.Duration {
	if !p.IsStorable() || p.resCC.Has("no-cache") {
		return 0
	}

	// Shared responses with cookies are technically cacheable per the RFC,
	// but that'd be unwise to do by default, so explicit opt-in via
	// "public" or "immutable" is required.
	if p.options.Privacy.IsShared() &&
		len(p.resHeader["Set-Cookie"]) != 0 &&
		!p.resCC.Has("public") &&
		!p.resCC.Has("immutable") {
		return 0
	}

	if strings.TrimSpace(p.resHeader.Get("Vary")) == "*" {
		return 0
	}

	if p.options.Privacy.IsShared() {
		if p.resCC.Has("proxy-revalidate") {
			return 0
		}

		// A shared cache receiving s-maxage must ignore Expires.
		if p.resCC.Has("s-maxage") {
			if d, ok := p.resCC.DeltaSeconds("s-maxage"); ok {
				return d
			}
			return 0
		}
	}

	// A recipient receiving max-age must ignore Expires.
	if p.resCC.Has("max-age") {
		if d, ok := p.resCC.DeltaSeconds("max-age"); ok {
			return d
		}
		return 0
	}

	var minTTL time.Duration
	if p.resCC.Has("immutable") {
		minTTL = p.options.ImmutableMinTimeToLive
	}

	serverDate := p.rawServerDate()

	if expiresRaw := p.resHeader.Get("Expires"); expiresRaw != "" {
		expires, err := httpdate.Parse(expiresRaw)
		if err != nil {
			// Invalid date formats, especially "0", mean "already expired".
			return 0
		}
		diff := expires.Sub(serverDate)
		if diff < 0 {
			diff = 0
		}
		return maxDuration(minTTL, diff)
	}

	if lastModifiedRaw := p.resHeader.Get("Last-Modified"); lastModifiedRaw != "" {
		if lastModified, err := httpdate.Parse(lastModifiedRaw); err == nil && !lastModified.After(serverDate) {
			diff := serverDate.Sub(lastModified)
			heuristic := time.Duration(float64(diff) * p.options.CacheHeuristic)
			return maxDuration(minTTL, heuristic)
		}
	}

	return minTTL
}

// TimeToLive returns the approximate duration until the response becomes
// stale, saturating at zero.
func (p Policy) TimeToLive(now time.Time) time.Duration {
	return saturatingSub(p.maxAge(), p.Age(now))
}

// IsStale reports whether the response's age has reached or exceeded its
// freshness lifetime.
func (p Policy) IsStale(now time.Time) bool {
	return p.Age(now) >= p.maxAge()
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

func saturatingSub(a, b time.Duration) time.Duration {
	if a <= b {
		return 0
	}
	return a - b
}
