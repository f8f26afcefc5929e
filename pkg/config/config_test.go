package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	storage := t.TempDir()

	cfg, err := Load(writeConfig(t, `
settings {
  listen  = "127.0.0.1:3500"
  storage = "`+storage+`"

  vault_url   = "http://127.0.0.1:8200"
  vault_token = "root"
}
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3500", cfg.Settings.Listen)
	assert.Equal(t, storage, cfg.Settings.Storage)
	assert.Equal(t, "http://127.0.0.1:8200", cfg.Settings.VaultURL)
	assert.Equal(t, "root", cfg.Settings.VaultToken)
}

func TestLoadVaultOptional(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
settings {
  listen  = "127.0.0.1:3500"
  storage = "`+t.TempDir()+`"
}
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Settings.VaultURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadParseFailure(t *testing.T) {
	_, err := Load(writeConfig(t, `settings {`))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing listen", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
settings {
  listen  = ""
  storage = "`+t.TempDir()+`"
}
`))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("storage must exist", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
settings {
  listen  = "127.0.0.1:3500"
  storage = "/definitely/not/a/real/dir"
}
`))
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
