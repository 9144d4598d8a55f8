package appdesc

import "runtime/debug"

var (
	// Version is the semantic version of appdesc.
	// Set at build time with -ldflags "-X github.com/frantjc/appdesc.Version=...".
	Version = "0.0.0"
	// Prerelease is the prerelease suffix of appdesc, if any.
	Prerelease = ""
)

// SemVer returns the semantic version of appdesc as built from
// Version, Prerelease and the VCS revision, if it can be read.
func SemVer() string {
	semver := Version

	if Prerelease != "" {
		semver = semver + "-" + Prerelease
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				semver = semver + "+" + setting.Value[:7]
				break
			}
		}
	}

	return semver
}
