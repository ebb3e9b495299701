package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
site:
  domain: weblate.example.org
email:
  subject_prefix: "[Example] "
  admins:
    - ops@example.org
notification:
  default_language: de
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Mode)
	assert.Equal(t, "weblate.example.org", cfg.Site.Domain)
	assert.Equal(t, "http", cfg.Site.Scheme)
	assert.Equal(t, "[Example] ", cfg.Email.SubjectPrefix)
	assert.Equal(t, []string{"ops@example.org"}, cfg.Email.Admins)
	assert.Equal(t, "de", cfg.Notification.DefaultLanguage)
	assert.True(t, cfg.Notification.NotifyAdminsOnMergeFailure)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  domain: a.example.org\n"), 0o600))

	t.Setenv("VERBATIM_SITE_DOMAIN", "b.example.org")

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "b.example.org", cfg.Site.Domain)
	assert.Equal(t, "development", cfg.Server.Mode)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
