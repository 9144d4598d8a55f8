package apktool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeOptsArgs(t *testing.T) {
	t.Parallel()

	var opts *DecodeOpts
	require.Empty(t, opts.Args())

	opts = &DecodeOpts{Force: true, NoSources: true, OutputDirectory: "out"}
	require.Equal(t, []string{"--force", "--no-src", "--output", "out"}, opts.Args())
}

const metadataYAML = `version: 2.9.3
apkFileName: app-release.apk
isFrameworkApk: false
usesFramework:
  ids:
  - 1
  tag: null
sdkInfo:
  minSdkVersion: '21'
  targetSdkVersion: 34
packageInfo:
  forcedPackageId: 127
  renameManifestPackage: null
versionInfo:
  versionCode: '3'
  versionName: 1.2.0
resourcesAreCompressed: false
sharedLibrary: false
sparseResources: false
doNotCompress:
- resources.arsc
- png
`

func TestReadMetadata(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataName), []byte(metadataYAML), 0o600))

	metadata, err := ReadMetadata(dir)
	require.NoError(t, err)
	require.Equal(t, "app-release.apk", metadata.APKFileName)
	require.Equal(t, 21, metadata.SDKInfo.MinSDKVersion.Int())
	require.Equal(t, 34, metadata.SDKInfo.TargetSDKVersion.Int())
	require.Equal(t, 3, metadata.VersionInfo.VersionCode.Int())
	require.Equal(t, "1.2.0", metadata.VersionInfo.VersionName)
	require.Equal(t, []string{"resources.arsc", "png"}, metadata.DoNotCompress)
}

func TestReadMetadataInvalidInt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataName), []byte("versionInfo:\n  versionCode: abc\n"), 0o600))

	_, err := ReadMetadata(dir)
	require.Error(t, err)
}
