package apktool

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Int is an integer that apktool may write either bare or quoted,
// e.g. `minSdkVersion: '21'`.
type Int int

func (i *Int) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar for integer", node.Line)
	}

	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*i = Int(n)

	return nil
}

func (i Int) Int() int {
	return int(i)
}

type UsesFramework struct {
	IDs []int `yaml:"ids"`
	Tag any   `yaml:"tag"`
}

type SDKInfo struct {
	MinSDKVersion    Int `yaml:"minSdkVersion"`
	TargetSDKVersion Int `yaml:"targetSdkVersion"`
}

type PackageInfo struct {
	ForcedPackageID       Int `yaml:"forcedPackageId"`
	RenameManifestPackage any `yaml:"renameManifestPackage"`
}

type VersionInfo struct {
	VersionCode Int    `yaml:"versionCode"`
	VersionName string `yaml:"versionName"`
}

// Metadata is the apktool.yml that `apktool decode` writes
// alongside the decoded contents of an .apk.
type Metadata struct {
	Version                string         `yaml:"version,omitempty"`
	APKFileName            string         `yaml:"apkFileName,omitempty"`
	IsFrameworkAPK         bool           `yaml:"isFrameworkApk,omitempty"`
	UsesFramework          *UsesFramework `yaml:"usesFramework,omitempty"`
	SDKInfo                *SDKInfo       `yaml:"sdkInfo,omitempty"`
	PackageInfo            *PackageInfo   `yaml:"packageInfo,omitempty"`
	VersionInfo            *VersionInfo   `yaml:"versionInfo,omitempty"`
	ResourcesAreCompressed bool           `yaml:"resourcesAreCompressed,omitempty"`
	SharedLibrary          bool           `yaml:"sharedLibrary,omitempty"`
	SparseResources        bool           `yaml:"sparseResources,omitempty"`
	UnknownFiles           map[string]int `yaml:"unknownFiles,omitempty"`
	DoNotCompress          []string       `yaml:"doNotCompress,omitempty"`
}
