package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zl/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".zl", cfg.Build.SourceExt)
	assert.Equal(t, ".js", cfg.Build.TargetExt)
	assert.Equal(t, parser.DefaultMaxDepth, cfg.Check.MaxDepth)
	assert.False(t, cfg.Check.InheritRules)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[build]
input = "app"
jobs = 4

[check]
inherit_rules = true
max_diagnostics = 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "app"), cfg.Build.Input)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Build.Out)
	assert.Equal(t, ".zl", cfg.Build.SourceExt)
	assert.Equal(t, 4, cfg.Build.Jobs)
	assert.True(t, cfg.Check.InheritRules)
	assert.Equal(t, path, cfg.Path)

	opts := cfg.CompileOptions()
	assert.True(t, opts.InheritRules)
	assert.Equal(t, 20, opts.MaxDiagnostics)
	assert.Equal(t, parser.DefaultMaxDepth, opts.MaxDepth)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"same extensions": "[build]\nsource_ext = \".js\"\n",
		"missing dot":     "[build]\ntarget_ext = \"js\"\n",
		"negative jobs":   "[build]\njobs = -1\n",
		"zero depth":      "[check]\nmax_depth = 0\n",
		"bad toml":        "[build\n",
	}

	for name, content := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		writeFile(t, path, content)

		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	writeFile(t, path, "")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := Find(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, found)
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()

	// t.TempDir may sit below a directory that has a zl.toml of its own
	if _, ok, _ := Find(dir); ok {
		t.Skip("a zl.toml exists above the temp dir")
	}

	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "src", cfg.Build.Input)
}
