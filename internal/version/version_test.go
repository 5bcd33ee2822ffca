package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionHasDefault(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, "0.1.0-dev", plain(versionMajorColor.Sprint("0")+".1.0-dev"))
}

func TestCurrentStripsColor(t *testing.T) {
	orig, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = orig, origCommit })

	Version = "\x1b[33;1m1\x1b[0m.2.3"
	GitCommit = "abc123"

	info := Current()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Empty(t, info.BuildDate)
}

func TestCurrentFallsBackToDev(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = ""
	assert.Equal(t, "dev", Current().Version)
}
