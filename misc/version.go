// Package misc holds build time program identification.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set with -ldflags "-X sphv/misc.version=... -X sphv/misc.appName=..."
var (
	version = "dev"
	appName = ""
)

// GetAppName returns program name, executable name is used when not set at
// build time.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision recorded by the toolchain, if any.
func GetGitHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var (
		rev      = "unknown"
		modified bool
	)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if modified {
		rev += "-dirty"
	}
	return rev
}
