package flutter

import (
	"github.com/frantjc/appdesc"
)

const (
	DefaultMinSDKVersion     = 21
	DefaultTargetSDKVersion  = 34
	DefaultCompileSDKVersion = 34
)

// Defaulter fills zero-valued version and SDK fields of a Descriptor
// whose SourceRoot is a Flutter project, the way the Flutter Gradle
// plugin supplies them. Descriptors outside of a Flutter project are
// left untouched.
func Defaulter() appdesc.Defaulter {
	return appdesc.DefaulterFunc(func(d *appdesc.Descriptor) error {
		if d.SourceRoot == "" || !IsProject(d.SourceRoot) {
			return nil
		}

		if d.VersionCode == 0 || d.VersionName == "" {
			pubspec, err := ReadPubspec(d.SourceRoot)
			if err != nil {
				return err
			}

			if pubspec.Version != "" {
				name, code, err := ParseVersion(pubspec.Version)
				if err != nil {
					return err
				}

				if d.VersionName == "" {
					d.VersionName = name
				}

				if d.VersionCode == 0 {
					d.VersionCode = code
				}
			}
		}

		if d.MinSDKVersion == 0 {
			d.MinSDKVersion = DefaultMinSDKVersion
		}

		if d.TargetSDKVersion == 0 {
			d.TargetSDKVersion = DefaultTargetSDKVersion
		}

		if d.CompileSDKVersion == 0 {
			d.CompileSDKVersion = DefaultCompileSDKVersion
		}

		return nil
	})
}
