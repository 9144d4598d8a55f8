package appdesc

import (
	"fmt"
	"path/filepath"
)

const (
	// BuildTypeDebug is the implicit debug build type and signing slot.
	BuildTypeDebug = "debug"
	// BuildTypeRelease is the build type whose output is distributed.
	BuildTypeRelease = "release"

	// DefaultJavaVersion is used for source, target and JVM compatibility
	// when a Descriptor does not set JavaVersion.
	DefaultJavaVersion = "11"

	// MaxVersionCode is the largest versionCode a distribution channel accepts.
	MaxVersionCode = 2100000000
)

// SigningConfig references the credential used to sign a bundle.
type SigningConfig struct {
	KeyAlias      string `json:"keyAlias,omitempty" yaml:"keyAlias,omitempty" toml:"keyAlias,omitempty"`
	KeyPassword   string `json:"keyPassword,omitempty" yaml:"keyPassword,omitempty" toml:"keyPassword,omitempty"`
	StoreFile     string `json:"storeFile,omitempty" yaml:"storeFile,omitempty" toml:"storeFile,omitempty"`
	StorePassword string `json:"storePassword,omitempty" yaml:"storePassword,omitempty" toml:"storePassword,omitempty"`
}

// BuildType names the SigningConfig that signs its output.
type BuildType struct {
	SigningConfig string `json:"signingConfig,omitempty" yaml:"signingConfig,omitempty" toml:"signingConfig,omitempty"`
}

// Descriptor is the set of parameters an external build tool
// reads to produce a distributable application bundle.
type Descriptor struct {
	Namespace         string                   `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	ApplicationID     string                   `json:"applicationId" yaml:"applicationId" toml:"applicationId"`
	CompileSDKVersion int                      `json:"compileSdkVersion,omitempty" yaml:"compileSdkVersion,omitempty" toml:"compileSdkVersion,omitempty"`
	MinSDKVersion     int                      `json:"minSdkVersion" yaml:"minSdkVersion" toml:"minSdkVersion"`
	TargetSDKVersion  int                      `json:"targetSdkVersion" yaml:"targetSdkVersion" toml:"targetSdkVersion"`
	NDKVersion        string                   `json:"ndkVersion,omitempty" yaml:"ndkVersion,omitempty" toml:"ndkVersion,omitempty"`
	JavaVersion       string                   `json:"javaVersion,omitempty" yaml:"javaVersion,omitempty" toml:"javaVersion,omitempty"`
	VersionCode       int                      `json:"versionCode" yaml:"versionCode" toml:"versionCode"`
	VersionName       string                   `json:"versionName,omitempty" yaml:"versionName,omitempty" toml:"versionName,omitempty"`
	SigningConfigs    map[string]SigningConfig `json:"signingConfigs,omitempty" yaml:"signingConfigs,omitempty" toml:"signingConfigs,omitempty"`
	BuildTypes        map[string]BuildType     `json:"buildTypes,omitempty" yaml:"buildTypes,omitempty" toml:"buildTypes,omitempty"`
	SourceRoot        string                   `json:"sourceRoot,omitempty" yaml:"sourceRoot,omitempty" toml:"sourceRoot,omitempty"`

	// Dir is the absolute directory the Descriptor was read from.
	// Relative paths in the Descriptor are resolved against it.
	Dir string `json:"-" yaml:"-" toml:"-"`
}

// SigningIdentity returns the SigningConfig that the given build type is
// signed with. The debug slot is implicit: it resolves to an empty
// SigningConfig unless one is declared.
func (d *Descriptor) SigningIdentity(buildType string) (*SigningConfig, error) {
	name := buildType
	if bt, ok := d.BuildTypes[buildType]; ok && bt.SigningConfig != "" {
		name = bt.SigningConfig
	}

	if sc, ok := d.SigningConfigs[name]; ok {
		return &sc, nil
	} else if name == BuildTypeDebug {
		return &SigningConfig{}, nil
	}

	return nil, fmt.Errorf("%w: build type %s refers to signing config %s", ErrUnknownSigningConfig, buildType, name)
}

// Path resolves name relative to the Descriptor's Dir.
func (d *Descriptor) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || d.Dir == "" {
		return name
	}

	return filepath.Join(d.Dir, name)
}

// Rel returns name relative to the Descriptor's Dir, falling back to
// name itself when no relative path exists.
func (d *Descriptor) Rel(name string) string {
	if d.Dir == "" || !filepath.IsAbs(name) {
		return name
	}

	rel, err := filepath.Rel(d.Dir, name)
	if err != nil {
		return name
	}

	return filepath.ToSlash(rel)
}

// GetNamespace returns the code namespace, defaulting to the ApplicationID.
func (d *Descriptor) GetNamespace() string {
	if d.Namespace != "" {
		return d.Namespace
	}

	return d.ApplicationID
}

// GetJavaVersion returns the Java compatibility level.
func (d *Descriptor) GetJavaVersion() string {
	if d.JavaVersion != "" {
		return d.JavaVersion
	}

	return DefaultJavaVersion
}
