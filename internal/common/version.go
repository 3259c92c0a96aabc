package common

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/bobmcallan/folio/internal/common.Version=..." in release builds.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// SchemaVersion identifies the layout of persisted documents.
// It is recorded in system KV at startup.
const SchemaVersion = "1"

func GetVersion() string { return Version }
func GetBuild() string { return Build }
func GetGitCommit() string { return GitCommit }

// GetFullVersion formats version, build time and commit on one line.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadBuildInfo fills values that ldflags left at their defaults from the
// module and VCS stamps the go command embeds in the binary.
func LoadBuildInfo() {
	if info, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info)
	}
}

func applyBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "unknown" && s.Value != "" {
				GitCommit = s.Value
				if len(GitCommit) > 12 {
					GitCommit = GitCommit[:12]
				}
			}
		case "vcs.time":
			if Build == "unknown" && s.Value != "" {
				Build = s.Value
			}
		}
	}
}
