package endpoints_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/marcelsud/webhook-debugger/endpoints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("success - valid endpoints file", func(t *testing.T) {
		t.Setenv("TEST_GH_SECRET", "from-env")

		path := writeFile(t, `
endpoints:
  - id: "ep-stripe"
    name: "Stripe payments"
    path: "stripe-abc"
    verification_method: "stripe"
    verification_secret: "whsec_123"
  - id: "ep-github"
    path: "/hook/github-xyz"
    verification_method: "github"
    verification_secret: "${TEST_GH_SECRET}"
  - id: "ep-off"
    path: "disabled"
    active: false
`)

		loader := endpoints.NewLoader()
		require.NoError(t, loader.Load(path))

		list := loader.List()
		require.Len(t, list, 3)
		assert.Equal(t, "ep-github", list[0].ID)

		ep, err := loader.FindByPath(ctx, "stripe-abc")
		require.NoError(t, err)
		assert.Equal(t, "ep-stripe", ep.ID)
		assert.Equal(t, "Stripe payments", ep.Name)
		assert.True(t, ep.Active)
		assert.Equal(t, signature.Stripe, ep.VerificationMethod)
		assert.True(t, ep.VerificationEnabled())

		ep, err = loader.FindByPath(ctx, "github-xyz")
		require.NoError(t, err)
		assert.Equal(t, "from-env", ep.VerificationSecret)
		assert.Equal(t, "ep-github", ep.Name)

		ep, err = loader.FindByPath(ctx, "disabled")
		require.NoError(t, err)
		assert.False(t, ep.Active)
		assert.Equal(t, signature.None, ep.VerificationMethod)
		assert.False(t, ep.VerificationEnabled())
	})

	t.Run("unknown path", func(t *testing.T) {
		loader := endpoints.NewLoader()
		_, err := loader.FindByPath(ctx, "nope")
		assert.ErrorIs(t, err, capture.ErrEndpointNotFound)
	})

	t.Run("error - unknown verification method", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "one"
    verification_method: "md5"
`)
		err := endpoints.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid verification method")
	})

	t.Run("error - duplicate path", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "same"
  - id: "ep-2"
    path: "/hook/same"
`)
		err := endpoints.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate endpoint path")
	})

	t.Run("error - duplicate id", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "a"
  - id: "ep-1"
    path: "b"
`)
		err := endpoints.NewLoader().Load(path)
		assert.ErrorContains(t, err, "duplicate endpoint id")
	})

	t.Run("error - missing id", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - path: "a"
`)
		err := endpoints.NewLoader().Load(path)
		assert.ErrorContains(t, err, "id cannot be empty")
	})

	t.Run("error - nested path", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "a/b"
`)
		err := endpoints.NewLoader().Load(path)
		assert.ErrorContains(t, err, "single segment")
	})

	t.Run("error - secret without method", func(t *testing.T) {
		path := writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "a"
    verification_secret: "s"
`)
		err := endpoints.NewLoader().Load(path)
		assert.ErrorContains(t, err, "without verification_method")
	})

	t.Run("error - file not found", func(t *testing.T) {
		err := endpoints.NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "reading endpoints file")
	})

	t.Run("error - invalid yaml", func(t *testing.T) {
		path := writeFile(t, "endpoints: [::")
		err := endpoints.NewLoader().Load(path)
		assert.ErrorContains(t, err, "parsing endpoints YAML")
	})

	t.Run("failed reload keeps previous endpoints", func(t *testing.T) {
		loader := endpoints.NewLoader()
		require.NoError(t, loader.Load(writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "keep"
`)))

		err := loader.Load(writeFile(t, `
endpoints:
  - id: ""
    path: "broken"
`))
		require.Error(t, err)

		_, err = loader.FindByPath(ctx, "keep")
		assert.NoError(t, err)
	})
}

func TestLoader_Get(t *testing.T) {
	loader := endpoints.NewLoader()
	require.NoError(t, loader.Load(writeFile(t, `
endpoints:
  - id: "ep-1"
    path: "one"
`)))

	ep, err := loader.Get("ep-1")
	require.NoError(t, err)
	assert.Equal(t, "one", ep.Path)

	_, err = loader.Get("ep-2")
	assert.ErrorIs(t, err, capture.ErrEndpointNotFound)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "abc", endpoints.NormalizePath("abc"))
	assert.Equal(t, "abc", endpoints.NormalizePath("/hook/abc"))
	assert.Equal(t, "abc", endpoints.NormalizePath("hook/abc/"))
}
