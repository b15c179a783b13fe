package capture

import (
	"io"
	"net/http"
	"strings"
)

const (
	// MaxBodyBytes is the default cap on stored body size
	MaxBodyBytes = 1 << 20

	// TruncationMarker is appended to bodies cut at the cap
	TruncationMarker = "... [truncated]"

	// BodyReadFailed replaces the body when it could not be read
	BodyReadFailed = "[Failed to read body]"
)

// Snapshot is a normalized, storable view of an inbound request
type Snapshot struct {
	Method      string
	Header      http.Header
	QueryParams map[string]string
	ContentType string
	Body        *string

	// Headers is keyed by canonical name (X-Hub-Signature-256), not the sender's case
	Headers map[string]string

	// Raw holds the exact bytes read, for signature verification.
	// It is nil when the body was truncated or could not be read.
	Raw        []byte
	Truncated  bool
	ReadFailed bool
}

// Normalize reads r into a Snapshot, capping the body at limit bytes.
// GET and HEAD requests are recorded without a body.
func Normalize(r *http.Request, limit int64) Snapshot {
	if limit <= 0 {
		limit = MaxBodyBytes
	}

	s := Snapshot{
		Method:      r.Method,
		Header:      r.Header.Clone(),
		Headers:     FlattenHeader(r.Header),
		QueryParams: flattenQuery(r),
		ContentType: r.Header.Get("Content-Type"),
	}
	if s.Header == nil {
		s.Header = http.Header{}
	}
	if r.Host != "" {
		s.Headers["Host"] = r.Host
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Body == nil {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			empty := ""
			s.Body = &empty
			s.Raw = []byte{}
		}
		return s
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		failed := BodyReadFailed
		s.Body = &failed
		s.ReadFailed = true
		return s
	}

	if int64(len(data)) > limit {
		body := string(data[:limit]) + TruncationMarker
		s.Body = &body
		s.Truncated = true
		return s
	}

	body := string(data)
	s.Body = &body
	s.Raw = data
	return s
}

// FlattenHeader maps each header name to a single value.
// Repeated headers are joined with ", " as a single field line would be.
func FlattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, values := range h {
		out[k] = strings.Join(values, ", ")
	}
	return out
}

// HeaderFromMap rebuilds an http.Header from a stored header map
func HeaderFromMap(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// flattenQuery keeps the last value of repeated query parameters
func flattenQuery(r *http.Request) map[string]string {
	out := map[string]string{}
	if r.URL == nil {
		return out
	}
	for k, values := range r.URL.Query() {
		if len(values) > 0 {
			out[k] = values[len(values)-1]
		}
	}
	return out
}
