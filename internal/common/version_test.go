package common

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetVersion(t *testing.T) {
	t.Helper()
	v, b, c := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = v, b, c })
	Version, Build, GitCommit = "dev", "unknown", "unknown"
}

func TestApplyBuildInfo_FillsDefaults(t *testing.T) {
	resetVersion(t)

	applyBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Path: "github.com/bobmcallan/folio", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v0.3.1", GetVersion())
	assert.Equal(t, "0123456789ab", GetGitCommit())
	assert.Equal(t, "2025-01-02T03:04:05Z", GetBuild())
	assert.Equal(t, "v0.3.1 (build: 2025-01-02T03:04:05Z, commit: 0123456789ab)", GetFullVersion())
}

func TestApplyBuildInfo_KeepsLinkerValues(t *testing.T) {
	resetVersion(t)
	Version, GitCommit = "1.0.0", "abc123"

	applyBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffff"}},
	})

	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "abc123", GitCommit)
	assert.Equal(t, "unknown", Build)
}
