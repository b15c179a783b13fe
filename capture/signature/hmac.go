package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// computeMAC is the single HMAC-SHA256 primitive shared by every scheme.
// The signed message is the concatenation of parts.
var computeMAC = func(secret string, parts ...[]byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

func hexMAC(secret string, parts ...[]byte) string {
	return hex.EncodeToString(computeMAC(secret, parts...))
}

func base64MAC(secret string, parts ...[]byte) string {
	return base64.StdEncoding.EncodeToString(computeMAC(secret, parts...))
}

// equal compares two strings in constant time with respect to their contents
func equal(expected, provided string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

// equalHex compares hex digests ignoring the case of the provided value
func equalHex(expected, provided string) bool {
	return equal(expected, strings.ToLower(provided))
}
