package signature

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func testVerifier() *Verifier {
	return &Verifier{
		Now:       func() time.Time { return fixedNow },
		Tolerance: DefaultTolerance,
	}
}

func flipLastChar(s string) string {
	last := s[len(s)-1]
	repl := byte('0')
	if last == '0' {
		repl = '1'
	}
	return s[:len(s)-1] + string(repl)
}

func TestVerifyRoundTrip(t *testing.T) {
	body := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	secret := "whsec_test_secret"

	for _, m := range []Method{Stripe, GitHub, Slack, Shopify, GenericHMAC} {
		t.Run(m.String(), func(t *testing.T) {
			h, err := Sign(m, body, secret, fixedNow)
			require.NoError(t, err)

			out := testVerifier().Verify(body, h, m, secret)
			assert.True(t, out.Verified, out.Reason)
			assert.Equal(t, m, out.Method)

			tampered := append([]byte{}, body...)
			tampered[0] = '['
			out = testVerifier().Verify(tampered, h, m, secret)
			assert.False(t, out.Verified)
			assert.Equal(t, ReasonMismatch, out.Reason)

			out = testVerifier().Verify(body, h, m, "other-secret")
			assert.False(t, out.Verified)
		})
	}
}

func TestVerifyNotConfigured(t *testing.T) {
	calls := 0
	original := computeMAC
	computeMAC = func(secret string, parts ...[]byte) []byte {
		calls++
		return original(secret, parts...)
	}
	t.Cleanup(func() { computeMAC = original })

	h := http.Header{}
	h.Set("X-Hub-Signature-256", "sha256=00")

	out := testVerifier().Verify([]byte("x"), h, None, "secret")
	assert.False(t, out.Verified)
	assert.Equal(t, ReasonNotConfigured, out.Reason)

	out = testVerifier().Verify([]byte("x"), h, GitHub, "")
	assert.False(t, out.Verified)
	assert.Equal(t, ReasonNotConfigured, out.Reason)

	assert.Zero(t, calls)
}

func TestVerifyUnknownMethod(t *testing.T) {
	out := testVerifier().Verify([]byte("x"), http.Header{}, Method(99), "secret")
	assert.False(t, out.Verified)
	assert.Equal(t, ReasonUnknownMethod, out.Reason)
}

func TestVerifyNilHeader(t *testing.T) {
	out := testVerifier().Verify([]byte("x"), nil, Shopify, "secret")
	assert.False(t, out.Verified)
	assert.Equal(t, "Missing X-Shopify-Hmac-Sha256 header", out.Reason)
}

func TestStripe(t *testing.T) {
	body := []byte(`{"object":"event"}`)
	secret := "whsec_abc"
	ts := strconv.FormatInt(fixedNow.Unix(), 10)
	sig := hexMAC(secret, []byte(ts+"."), body)

	tests := []struct {
		name     string
		header   string
		verified bool
		reason   string
	}{
		{"valid", "t=" + ts + ",v1=" + sig, true, ""},
		{"missing header", "", false, "Missing Stripe-Signature header"},
		{"missing v1", "t=" + ts, false, ReasonInvalidFormat},
		{"missing t", "v1=" + sig, false, ReasonInvalidFormat},
		{"non numeric t", "t=abc,v1=" + sig, false, ReasonInvalidFormat},
		{"flipped digest", "t=" + ts + ",v1=" + flipLastChar(sig), false, ReasonMismatch},
		{"rotated secret", "t=" + ts + ",v1=" + strings.Repeat("0", 64) + ",v1=" + sig, true, ""},
		{"scheme v0 ignored", "t=" + ts + ",v0=" + sig, false, ReasonInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Stripe-Signature", tt.header)
			}
			out := testVerifier().Verify(body, h, Stripe, secret)
			assert.Equal(t, tt.verified, out.Verified)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestStripeTolerance(t *testing.T) {
	body := []byte(`{}`)
	secret := "whsec_abc"

	sign := func(at time.Time) http.Header {
		h, err := Sign(Stripe, body, secret, at)
		require.NoError(t, err)
		return h
	}

	out := testVerifier().Verify(body, sign(fixedNow.Add(-301*time.Second)), Stripe, secret)
	assert.False(t, out.Verified)
	assert.Equal(t, ReasonExpired, out.Reason)

	out = testVerifier().Verify(body, sign(fixedNow.Add(301*time.Second)), Stripe, secret)
	assert.Equal(t, ReasonExpired, out.Reason)

	out = testVerifier().Verify(body, sign(fixedNow.Add(-300*time.Second)), Stripe, secret)
	assert.True(t, out.Verified)
}

func TestWithinTolerance(t *testing.T) {
	in := Input{Now: fixedNow, Tolerance: DefaultTolerance}
	now := fixedNow.Unix()

	tests := []struct {
		name string
		ts   int64
		want bool
	}{
		{"now", now, true},
		{"lower bound", now - 300, true},
		{"upper bound", now + 300, true},
		{"just stale", now - 301, false},
		{"just ahead", now + 301, false},
		{"skew of two to the 63", now + math.MinInt64, false},
		{"min int64", math.MinInt64, false},
		{"max int64", math.MaxInt64, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, withinTolerance(tc.ts, in))
		})
	}
}

func TestGitHub(t *testing.T) {
	// Reference vector published in GitHub's webhook documentation.
	body := []byte("Hello, World!")
	secret := "It's a Secret to Everybody"
	const digest = "757107ea0eb2509fc211221cce984b8a37570b6d7586c22c46f4379c8b043e17"

	tests := []struct {
		name     string
		header   string
		verified bool
		reason   string
	}{
		{"valid", "sha256=" + digest, true, ""},
		{"uppercase hex", "sha256=" + strings.ToUpper(digest), true, ""},
		{"missing header", "", false, "Missing X-Hub-Signature-256 header"},
		{"sha1 prefix", "sha1=" + digest, false, ReasonInvalidFormat},
		{"no prefix", digest, false, ReasonInvalidFormat},
		{"flipped", "sha256=" + flipLastChar(digest), false, ReasonMismatch},
		{"truncated", "sha256=" + digest[:10], false, ReasonMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("X-Hub-Signature-256", tt.header)
			}
			out := testVerifier().Verify(body, h, GitHub, secret)
			assert.Equal(t, tt.verified, out.Verified)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestSlack(t *testing.T) {
	body := []byte("token=xyz&team_id=T1")
	secret := "8f742231b10e8888abcd99yyyzzz85a5"
	ts := strconv.FormatInt(fixedNow.Unix(), 10)
	sig := "v0=" + hexMAC(secret, []byte("v0:"+ts+":"), body)

	tests := []struct {
		name     string
		sig      string
		ts       string
		verified bool
		reason   string
	}{
		{"valid", sig, ts, true, ""},
		{"missing signature", "", ts, false, "Missing X-Slack-Signature header"},
		{"missing timestamp", sig, "", false, "Missing X-Slack-Request-Timestamp header"},
		{"bad format", "v1=abc", ts, false, ReasonInvalidFormat},
		{"bad timestamp", sig, "yesterday", false, ReasonInvalidTime},
		{"stale", sig, strconv.FormatInt(fixedNow.Unix()-301, 10), false, ReasonExpired},
		{"flipped", flipLastChar(sig), ts, false, ReasonMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.sig != "" {
				h.Set("X-Slack-Signature", tt.sig)
			}
			if tt.ts != "" {
				h.Set("X-Slack-Request-Timestamp", tt.ts)
			}
			out := testVerifier().Verify(body, h, Slack, secret)
			assert.Equal(t, tt.verified, out.Verified)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestShopify(t *testing.T) {
	body := []byte(`{"order_id":42}`)
	secret := "shpss_secret"
	digest := base64MAC(secret, body)

	h := http.Header{}
	h.Set("X-Shopify-Hmac-Sha256", digest)
	assert.True(t, testVerifier().Verify(body, h, Shopify, secret).Verified)

	h.Set("X-Shopify-Hmac-Sha256", strings.ToLower(digest))
	if strings.ToLower(digest) != digest {
		out := testVerifier().Verify(body, h, Shopify, secret)
		assert.False(t, out.Verified, "base64 comparison must be exact")
		assert.Equal(t, ReasonMismatch, out.Reason)
	}
}

func TestGenericHMAC(t *testing.T) {
	body := []byte("payload")
	secret := "s3cret"
	hexDigest := hexMAC(secret, body)
	b64Digest := base64MAC(secret, body)

	tests := []struct {
		name     string
		header   string
		value    string
		verified bool
		reason   string
	}{
		{"hex in X-Hub-Signature", "X-Hub-Signature", hexDigest, true, ""},
		{"prefixed hex", "X-Webhook-Signature", "sha256=" + hexDigest, true, ""},
		{"uppercase hex", "X-Webhook-Signature", strings.ToUpper(hexDigest), true, ""},
		{"base64", "X-Webhook-Signature", b64Digest, true, ""},
		{"flipped hex", "X-Hub-Signature", flipLastChar(hexDigest), false, ReasonMismatch},
		{"short hex", "X-Hub-Signature", hexDigest[:40], false, ReasonInvalidFormat},
		{"garbage", "X-Hub-Signature", "not-a-signature", false, ReasonInvalidFormat},
		{"missing", "", "", false, ReasonMissingGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set(tt.header, tt.value)
			}
			out := testVerifier().Verify(body, h, GenericHMAC, secret)
			assert.Equal(t, tt.verified, out.Verified)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{None, Stripe, GitHub, Slack, Shopify, GenericHMAC} {
		parsed, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
		assert.NoError(t, parsed.Validate())
	}

	parsed, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, None, parsed)

	_, err = ParseMethod("md5")
	assert.Error(t, err)
	assert.Error(t, Method(0).Validate())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		header string
		want   Method
	}{
		{"Stripe-Signature", Stripe},
		{"X-Hub-Signature-256", GitHub},
		{"X-Slack-Signature", Slack},
		{"X-Shopify-Hmac-Sha256", Shopify},
		{"X-Hub-Signature", GenericHMAC},
		{"X-Webhook-Signature", GenericHMAC},
		{"X-Request-Id", None},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			h := http.Header{}
			h.Set(tt.header, "value")
			assert.Equal(t, tt.want, Detect(h))
		})
	}
}
