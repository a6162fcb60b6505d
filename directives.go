package httpcache

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cacheware/httpcachepolicy/internal/cachecontrol"
)

// directive is a single parsed Cache-Control directive's value.
type directive struct {
	Value    string
	HasValue bool
}

// DirectiveSet is a parsed set of Cache-Control directives: a mapping from
// lowercase directive name to an optional argument string. It is built once
// at [Policy] construction time and never mutated by a query method.
//
// When the same directive name appears twice with different values, the set
// is considered invalid and "must-revalidate" is inserted, per RFC 7234
// section 5.2.1.1 guidance that caches should treat such responses as
// stale-requiring-revalidation rather than trust either value.
type DirectiveSet map[string]directive

// ParseDirectiveSet parses the concatenation of headerValues (each a raw
// Cache-Control header line, possibly itself containing multiple
// comma-separated directives) into a [DirectiveSet].
func ParseDirectiveSet(headerValues []string) DirectiveSet {
	set := make(DirectiveSet)

	var conflict bool

	for d := range cachecontrol.Parse(strings.Join(headerValues, ",")) {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		if name == "" {
			continue
		}

		next := directive{Value: d.Value, HasValue: d.HasValue}

		if existing, ok := set[name]; ok {
			if existing != next {
				conflict = true
			}
			continue
		}

		set[name] = next
	}

	if conflict {
		set["must-revalidate"] = directive{}
	}

	return set
}

// Has reports whether name is present in the set, with or without a value.
func (d DirectiveSet) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// Value returns the argument of name and whether it was present with a
// value at all (a bare directive like "no-cache" returns "", false).
func (d DirectiveSet) Value(name string) (string, bool) {
	v, ok := d[name]
	if !ok || !v.HasValue {
		return "", false
	}
	return v.Value, true
}

// Set inserts or overwrites a bare (valueless) directive.
func (d DirectiveSet) Set(name string) {
	d[name] = directive{}
}

// Remove deletes name from the set, if present.
func (d DirectiveSet) Remove(name string) {
	delete(d, name)
}

// DeltaSeconds returns the non-negative integer-seconds value of name,
// parsed per RFC 7234's delta-seconds grammar. Invalid or missing values
// report ok == false; callers treat that identically to "absent".
func (d DirectiveSet) DeltaSeconds(name string) (dur time.Duration, ok bool) {
	v, hasValue := d.Value(name)
	if !hasValue {
		return 0, false
	}
	dur, err := ParseDeltaSeconds(v)
	if err != nil {
		return 0, false
	}
	return dur, true
}

// String formats the directive set back into a Cache-Control header value.
// Argument values that are empty or contain any non-alphanumeric byte are
// quoted; order is not guaranteed to match the original input, but is
// stable across repeated calls on the same set.
func (d DirectiveSet) String() string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := d[name]
		if !v.HasValue {
			parts = append(parts, name)
			continue
		}
		if needsQuoting(v.Value) {
			parts = append(parts, name+`="`+v.Value+`"`)
		} else {
			parts = append(parts, name+"="+v.Value)
		}
	}
	return strings.Join(parts, ", ")
}

func needsQuoting(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return true
		}
	}
	return false
}

var (
	errEmptyDeltaSeconds   = errors.New("httpcache: empty delta-seconds value")
	errInvalidDeltaSeconds = errors.New("httpcache: invalid delta-seconds value")
)

// ParseDeltaSeconds parses s as an RFC 7234 delta-seconds value: a
// non-negative run of ASCII digits. Per section 1.2.2, a value that
// overflows is clamped to the largest representable duration rather than
// treated as an error.
func ParseDeltaSeconds(s string) (time.Duration, error) {
	if s == "" {
		return 0, errEmptyDeltaSeconds
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidDeltaSeconds
		}

		next := n*10 + uint64(c-'0')
		if next < n {
			n = math.MaxUint64
			continue
		}
		n = next
	}

	const maxSeconds = uint64(math.MaxInt64) / uint64(time.Second)
	if n > maxSeconds {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(n) * time.Second, nil
}
