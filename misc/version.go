// Package misc keeps build identity helpers used across the program.
package misc

import "runtime/debug"

const appName = "mdx"

// set by the linker during release builds
var (
	version = "development"
	gitHash = ""
)

// GetAppName returns short program name used for logs, temporary files and
// generated artifacts.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, either set by the linker or derived
// from module build information.
func GetVersion() string {
	if version != "development" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

// GetGitHash returns VCS revision recorded in the binary.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
