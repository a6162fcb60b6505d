package httpcache

// understoodStatusCodes are the response statuses this engine knows how to
// reason about. Partial content (206) is deliberately excluded: range
// reassembly is out of scope.
var understoodStatusCodes = map[int]bool{
	200: true, 203: true, 204: true,
	300: true, 301: true, 302: true, 303: true, 307: true, 308: true,
	404: true, 405: true, 410: true, 414: true, 501: true,
}

// defaultCacheableStatusCodes are cacheable without any explicit freshness
// signal from the response, per RFC 7231 section 6.1.
var defaultCacheableStatusCodes = map[int]bool{
	200: true, 203: true, 204: true, 206: true,
	300: true, 301: true, 308: true,
	404: true, 405: true, 410: true, 414: true, 501: true,
}

// IsStorable reports whether the response may be stored in a cache. If it
// returns false, neither the request nor the response may be stored.
func (p Policy) IsStorable() bool {
	if p.reqCC.Has("no-store") {
		return false
	}

	switch p.method {
	case "GET", "HEAD":
	case "POST":
		if !p.hasExplicitExpiration() {
			return false
		}
	default:
		return false
	}

	if !understoodStatusCodes[p.status] {
		return false
	}

	if p.resCC.Has("no-store") {
		return false
	}

	if p.options.Privacy.IsShared() && p.resCC.Has("private") {
		return false
	}

	if p.options.Privacy.IsShared() && len(p.reqHeader["Authorization"]) != 0 && !p.allowsStoringAuthenticated() {
		return false
	}

	if p.resHeader.Get("Expires") != "" {
		return true
	}
	if p.resCC.Has("max-age") {
		return true
	}
	if p.options.Privacy.IsShared() && p.resCC.Has("s-maxage") {
		return true
	}
	if p.resCC.Has("public") {
		return true
	}
	return defaultCacheableStatusCodes[p.status]
}

// hasExplicitExpiration reports whether the response carries an explicit
// freshness signal (as opposed to relying on heuristic freshness).
func (p Policy) hasExplicitExpiration() bool {
	return (p.options.Privacy.IsShared() && p.resCC.Has("s-maxage")) ||
		p.resCC.Has("max-age") ||
		p.resHeader.Get("Expires") != ""
}

// allowsStoringAuthenticated reports whether the response explicitly opts
// into shared-cache storage despite the request carrying Authorization.
func (p Policy) allowsStoringAuthenticated() bool {
	return p.resCC.Has("must-revalidate") || p.resCC.Has("public") || p.resCC.Has("s-maxage")
}
