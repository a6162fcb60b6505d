// Package httpdate parses and formats the HTTP-date formats defined in RFC
// 7231 section 7.1.1 (IMF-fixdate, obsolete RFC 850 dates, and ANSI C's
// asctime format).
package httpdate

import (
	"net/http"
	"time"
)

// Parse parses s as an HTTP-date, accepting any of the three grammars
// allowed by RFC 7231 section 7.1.1. Recipients are required to accept all
// three even though IMF-fixdate is the only one servers should generate.
//
// net/http.ParseTime already implements all three grammars, so this is a
// thin, named wrapper kept so the rest of the module has a single import
// site for date handling.
func Parse(s string) (time.Time, error) {
	return http.ParseTime(s)
}

// Format formats t as an IMF-fixdate, the preferred HTTP-date format for
// generated header fields.
func Format(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
