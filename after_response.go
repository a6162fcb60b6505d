package httpcache

import (
	"net/http"
	"strings"
	"time"
)

// AfterResponse is the result of [Policy.AfterResponse]: either the origin
// confirmed the stored response is still valid (NotModified, merging
// headers from the 304) or it returned a fresh representation to use
// instead (Modified).
type AfterResponse struct {
	modified bool
	policy   Policy
	response ResponseParts
}

// IsModified reports whether the body in the cache must be replaced.
func (a AfterResponse) IsModified() bool { return a.modified }

// Policy is the new policy to store, replacing the one AfterResponse was
// called on.
func (a AfterResponse) Policy() Policy { return a.policy }

// Response returns the headers to hand back to the caller.
func (a AfterResponse) Response() ResponseParts { return a.response }

// AfterResponse combines the previously stored response with a
// revalidation response received at responseTime, producing an updated
// policy and the headers to serve.
func (p Policy) AfterResponse(req RequestLike, resp ResponseLike, responseTime time.Time) AfterResponse {
	newHeader := resp.Header()
	newStatus := resp.StatusCode()

	oldETag := strings.TrimSpace(p.resHeader.Get("ETag"))
	newETag := strings.TrimSpace(newHeader.Get("ETag"))
	oldLastModified := strings.TrimSpace(p.resHeader.Get("Last-Modified"))
	newLastModified := strings.TrimSpace(newHeader.Get("Last-Modified"))

	matches := validatorMatches(newStatus, oldETag, newETag, oldLastModified, newLastModified)

	var mergedHeader http.Header
	var mergedStatus int

	if matches {
		mergedHeader = make(http.Header, len(p.resHeader))
		for name, oldValues := range p.resHeader {
			if newValues, ok := newHeader[name]; ok && !excludedFromRevalidationUpdate[http.CanonicalHeaderKey(name)] {
				mergedHeader[name] = append([]string(nil), newValues...)
				continue
			}
			mergedHeader[name] = append([]string(nil), oldValues...)
		}
		mergedStatus = p.status
	} else {
		mergedHeader = newHeader.Clone()
		mergedStatus = newStatus
	}

	newPolicy := newFromDetails(req.URI(), req.Method(), mergedStatus, req.Header().Clone(), mergedHeader, responseTime, p.options)
	parts := newPolicy.cachedResponse(responseTime)

	return AfterResponse{
		modified: !(matches && newStatus == http.StatusNotModified),
		policy:   newPolicy,
		response: parts,
	}
}

// validatorMatches decides whether a 304 response applies to the stored
// entry this Policy represents, per RFC 7234 section 4.3.3.
func validatorMatches(newStatus int, oldETag, newETag, oldLastModified, newLastModified string) bool {
	switch {
	case newStatus != http.StatusNotModified:
		return false
	case newETag != "" && !strings.HasPrefix(newETag, "W/"):
		// A strong validator in the 304 must match a stored strong or weak
		// validator (ignoring weakness) exactly.
		return oldETag != "" && strings.TrimPrefix(oldETag, "W/") == newETag
	case oldETag != "" && newETag != "":
		return strings.TrimPrefix(oldETag, "W/") == strings.TrimPrefix(newETag, "W/")
	case oldLastModified != "":
		return oldLastModified == newLastModified
	default:
		// Neither side carries any validator: fall back to the
		// single-entry assumption (this Policy is the only candidate).
		return oldETag == "" && newETag == "" && oldLastModified == "" && newLastModified == ""
	}
}
