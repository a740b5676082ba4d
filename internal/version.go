package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	undefined  = "(undefined)" // Placeholder for an unset variable.
	localBuild = "(local)"     // Version string of a build made outside the release pipeline.
	mainBranch = "main"        // Branch whose builds carry no stage suffix.
)

var (
	version   = "" // Release version (e.g., "v0.4.1"), set via ldflags.
	stage     = "" // Git branch the release was cut from, set via ldflags.
	gitCommit = "" // Commit hash, set via ldflags.
)

// Returns the release version without a leading "v", or "(undefined)".
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// Returns the release stage (branch name), or "(undefined)".
func Stage() string {
	return orUndefined(strings.ToLower(strings.TrimSpace(stage)))
}

// Returns the git commit hash, or "(undefined)".
func GitCommit() string {
	return orUndefined(strings.TrimSpace(gitCommit))
}

// Reports whether the binary was built without the release linker flags.
func IsLocal() bool {
	for _, v := range []string{version, stage, gitCommit} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Returns "<version>[+<stage>] <commit> [<arch>]", or "(local)" for builds
// made outside the release pipeline. Builds from main carry no stage suffix.
func VersionString() string {
	if IsLocal() {
		return localBuild
	}

	suffix := ""
	if s := Stage(); s != mainBranch {
		suffix = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), suffix, GitCommit(), runtime.GOARCH)
}

func orUndefined(s string) string {
	if s == "" {
		return undefined
	}
	return s
}
