package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromReaderMergesOverDefaults(t *testing.T) {
	c, err := NewFromReader(strings.NewReader(`
api:
  baseURL: https://admin.example.com
  timeout: 5s
pageSize: 20
sections: [products, leads]
`))
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", c.API.BaseURL)
	assert.Equal(t, 5*time.Second, c.API.Timeout)
	assert.Equal(t, 20, c.PageSize)
	assert.Equal(t, []string{"products", "leads"}, c.Sections)
	assert.Equal(t, "/api/upload", c.Upload.Endpoint, "unset keys keep their default")
	assert.Equal(t, int64(8<<20), c.Upload.MaxBytes)
	assert.False(t, c.UseDemo())
}

func TestValidationRejectsBadValues(t *testing.T) {
	testcases := map[string]string{
		"page size":       "pageSize: 0",
		"unknown section": "sections: [products, boats]",
		"dup section":     "sections: [products, products]",
		"log level":       "log: {level: loud}",
		"base url":        "api: {baseURL: 'not a url'}",
		"upload endpoint": "upload: {endpoint: upload}",
	}
	for name, doc := range testcases {
		_, err := NewFromReader(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestDefaultIsValid(t *testing.T) {
	d := Default
	require.NoError(t, d.Validate())
	assert.True(t, d.UseDemo(), "no api means demo mode")
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("SHIPWRIGHT_API_URL", "https://api.example.com")
	t.Setenv("SHIPWRIGHT_API_TOKEN", "tok")
	t.Setenv("SHIPWRIGHT_PAGE_SIZE", "30")
	t.Setenv("SHIPWRIGHT_LOG_LEVEL", "debug")

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", c.API.BaseURL)
	assert.Equal(t, "tok", c.API.Token)
	assert.Equal(t, 30, c.PageSize)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, Default.Upload, c.Upload)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipwright.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pageSize: 8\ndemo: {enabled: false}\n"), 0o600))
	t.Setenv("SHIPWRIGHT_DEMO", "true")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.PageSize)
	assert.True(t, c.Demo.Enabled)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("SHIPWRIGHT_PAGE_SIZE", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
