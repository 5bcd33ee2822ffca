package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zl/internal/config"
)

const good = `function area(w|Number, h|Number) {
  return w * h
}
const width : Number = 3
const height : Number = 4
area(width, height)`

const bad = `function area(w|Number, h|Number) {
  return w * h
}
const label : String = "x"
area(label, label)`

func setup(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, "src", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cfg := config.Default()
	cfg.Build.Input = filepath.Join(root, "src")
	cfg.Build.Out = filepath.Join(root, "dist")
	return cfg
}

func TestBuildMirrorsTree(t *testing.T) {
	cfg := setup(t, map[string]string{
		"main.zl":        good,
		"lib/util.zl":    "const n : Number = 1",
		"assets/app.css": "body { color: red; }\n",
	})

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	require.Len(t, report.Files, 3)

	// sorted by relative path
	assert.Equal(t, "assets/app.css", report.Files[0].Rel)
	assert.Equal(t, "lib/util.zl", report.Files[1].Rel)
	assert.Equal(t, "main.zl", report.Files[2].Rel)

	out, err := os.ReadFile(filepath.Join(cfg.Build.Out, "main.js"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "const width = 3")
	assert.NotContains(t, string(out), "|Number")

	nested, err := os.ReadFile(filepath.Join(cfg.Build.Out, "lib", "util.js"))
	require.NoError(t, err)
	assert.Equal(t, "const n = 1", string(nested))

	css, err := os.ReadFile(filepath.Join(cfg.Build.Out, "assets", "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; }\n", string(css))

	assert.Equal(t, 2, report.Count(ActionCompiled))
	assert.Equal(t, 1, report.Count(ActionCopied))
}

func TestBuildFailedFileWritesNothing(t *testing.T) {
	cfg := setup(t, map[string]string{
		"bad.zl":  bad,
		"good.zl": good,
	})

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, report.Failed())
	require.Len(t, report.Files, 2)

	failed := report.Files[0]
	assert.Equal(t, "bad.zl", failed.Rel)
	assert.Equal(t, ActionFailed, failed.Action)
	assert.Empty(t, failed.Output)
	assert.Len(t, failed.Diagnostics, 2)
	assert.Equal(t, bad, failed.Content)

	_, err = os.Stat(filepath.Join(cfg.Build.Out, "bad.js"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.Build.Out, "good.js"))
	assert.NoError(t, err)
}

func TestBuildClearsOutputRoot(t *testing.T) {
	cfg := setup(t, map[string]string{"main.zl": good})
	stale := filepath.Join(cfg.Build.Out, "stale.js")
	require.NoError(t, os.MkdirAll(cfg.Build.Out, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := Build(context.Background(), cfg)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestBuildSingleFile(t *testing.T) {
	cfg := setup(t, map[string]string{"main.zl": good})
	cfg.Build.Input = filepath.Join(cfg.Build.Input, "main.zl")

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "main.zl", report.Files[0].Rel)

	_, err = os.Stat(filepath.Join(cfg.Build.Out, "main.js"))
	assert.NoError(t, err)
}

func TestBuildRefusesOverlappingOutput(t *testing.T) {
	cfg := setup(t, map[string]string{"main.zl": good})

	inside := *cfg
	inside.Build.Out = filepath.Join(cfg.Build.Input, "dist")
	_, err := Build(context.Background(), &inside)
	assert.Error(t, err)

	same := *cfg
	same.Build.Out = cfg.Build.Input
	_, err = Build(context.Background(), &same)
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(cfg.Build.Input, "main.zl"))
	assert.NoError(t, err, "input must survive a refused build")
}

func TestBuildHonorsJobsAndCancellation(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a.zl", "b.zl", "c.zl", "d.zl"} {
		files[name] = good
	}
	cfg := setup(t, files)
	cfg.Build.Jobs = 1

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Count(ActionCompiled))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithin(t *testing.T) {
	base := filepath.Join("a", "b")

	assert.True(t, within(base, base))
	assert.True(t, within(filepath.Join(base, "c"), base))
	assert.False(t, within(filepath.Join("a", "bc"), base))
	assert.False(t, within("a", base))
	assert.True(t, within(filepath.Join("a", "..b"), "a"))
}
