package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsVerifiableHeaders(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--method", "github", "--secret", "s3cret", "--data", `{"a":1}`}, &out)
	require.NoError(t, err)

	line := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(line, "X-Hub-Signature-256: sha256="), line)

	h := http.Header{}
	h.Set("X-Hub-Signature-256", strings.TrimPrefix(line, "X-Hub-Signature-256: "))
	outcome := signature.NewVerifier().Verify([]byte(`{"a":1}`), h, signature.GitHub, "s3cret")
	assert.True(t, outcome.Verified, outcome.Reason)
}

func TestRunSendsSignedPayload(t *testing.T) {
	payload := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"type":"charge.succeeded"}`), 0o600))

	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"status":"captured"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{"-m", "stripe", "-s", "whsec_test", "-f", payload, "-u", srv.URL + "/hook/stripe"}, &out)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	outcome := signature.NewVerifier().Verify(gotBody, got.Header, signature.Stripe, "whsec_test")
	assert.True(t, outcome.Verified, outcome.Reason)
	assert.Contains(t, out.String(), "200 OK")
}

func TestRunIssuesToken(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--token", "--jwt-secret", "dashboard-secret", "--subject", "alice", "--ttl", time.Hour.String()}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out.String()), "."))
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := map[string][]string{
		"unknown method": {"--method", "paypal", "--secret", "x"},
		"none method":    {"--method", "none", "--secret", "x"},
		"empty secret":   {"--method", "github"},
		"token secret":   {"--token", "--jwt-secret", ""},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args, io.Discard))
		})
	}
}
