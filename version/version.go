// Package version exposes build information, set at link time with -ldflags "-X".
package version

import (
	"runtime/debug"
)

//nolint:gochecknoglobals // set by the linker
var (
	name    = "notewise"
	version = ""
	commit  = ""
)

// Name returns the program name.
func Name() string {
	return name
}

// Version returns the release version, or the module version when not set at link time.
func Version() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "dev"
}

// Commit returns the VCS revision, or "unknown".
func Commit() string {
	if commit != "" {
		return commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}
