package replay

import (
	"net/http"
	"strings"
)

// StrippedHeaders are never forwarded when a capture is replayed.
// Matching is case-insensitive.
var StrippedHeaders = []string{
	"host",
	"content-length",
	"cf-connecting-ip",
	"cf-ipcountry",
	"x-forwarded-for",
}

func stripped(name string) bool {
	for _, h := range StrippedHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// ForwardHeaders copies captured headers onto h, skipping StrippedHeaders
func ForwardHeaders(h http.Header, captured map[string]string) {
	for k, v := range captured {
		if stripped(k) {
			continue
		}
		h.Set(k, v)
	}
}
