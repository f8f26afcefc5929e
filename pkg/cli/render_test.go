package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
meta {
  file   = "app"
  export = "json"
}
name = "demo"
`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"render", path})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "{\n  \"name\": \"demo\"\n}\n", out.String())
}

func TestRenderCommandLangFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
meta {
  file = "app.json"
}
name = "demo"
`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"render", path, "--lang", "yaml"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "name: demo\n\n", out.String())

	// Reset for other tests sharing the package-level command.
	renderLang = ""
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "shipd")
}
