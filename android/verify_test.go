package android_test

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/android"
	"github.com/frantjc/appdesc/apktool"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const manifestXML = `<?xml version="1.0" encoding="utf-8" standalone="no"?><manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.multiplication_table">
    <application android:label="multiplication_table"/>
</manifest>
`

const metadataYAML = `version: 2.9.3
apkFileName: app-release.apk
sdkInfo:
  minSdkVersion: '21'
  targetSdkVersion: '34'
versionInfo:
  versionCode: '3'
  versionName: 1.2.0
`

func newDecodedAPK(t *testing.T) *android.APKDecoder {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, android.AndroidManifestName), []byte(manifestXML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, apktool.MetadataName), []byte(metadataYAML), 0o600))

	return android.NewAPKDecoder(
		filepath.Join(dir, "app-release.apk"),
		android.WithDir(dir),
		android.WithAPKTool("/nonexistent/apktool"),
		android.WithKeytool("/nonexistent/keytool"),
	)
}

func newDescriptor() *appdesc.Descriptor {
	return &appdesc.Descriptor{
		ApplicationID:    "com.example.multiplication_table",
		MinSDKVersion:    21,
		TargetSDKVersion: 34,
		VersionCode:      3,
		VersionName:      "1.2.0",
	}
}

func TestVerifyAPK(t *testing.T) {
	t.Parallel()

	var (
		ctx = context.Background()
		apk = newDecodedAPK(t)
	)
	defer apk.Close()

	require.NoError(t, android.VerifyAPK(ctx, apk, newDescriptor(), ""))

	d := newDescriptor()
	d.VersionCode = 4
	d.MinSDKVersion = 23
	d.ApplicationID = "com.example.other"

	err := android.VerifyAPK(ctx, apk, d, "")
	require.ErrorIs(t, err, android.ErrAPKMismatch)
	require.ErrorContains(t, err, "versionCode")
	require.ErrorContains(t, err, "minSdkVersion")
	require.ErrorContains(t, err, "package")

	// Signature checks need keytool.
	require.Error(t, android.VerifyAPK(ctx, apk, newDescriptor(), "AB:CD"))
}

func TestCompareAPKMissingMetadata(t *testing.T) {
	t.Parallel()

	manifest := &android.Manifest{}
	require.NoError(t, xml.Unmarshal([]byte(manifestXML), manifest))

	err := android.CompareAPK(newDescriptor(), manifest, &apktool.Metadata{})
	require.ErrorIs(t, err, android.ErrAPKMismatch)
	require.ErrorContains(t, err, "sdkInfo")
	require.ErrorContains(t, err, "versionInfo")
	require.NotContains(t, err.Error(), "package")
}

const manifestWithVersionsXML = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.multiplication_table" android:versionCode="3" android:versionName="1.2.0">
    <uses-sdk android:minSdkVersion="21" android:targetSdkVersion="34"/>
</manifest>`

func TestCompareAPKFallsBackToManifest(t *testing.T) {
	t.Parallel()

	manifest := &android.Manifest{}
	require.NoError(t, xml.Unmarshal([]byte(manifestWithVersionsXML), manifest))

	require.NoError(t, android.CompareAPK(newDescriptor(), manifest, &apktool.Metadata{}))
	require.NoError(t, android.CompareAPK(newDescriptor(), manifest, nil))

	d := newDescriptor()
	d.TargetSDKVersion = 35
	d.VersionName = "1.3.0"

	err := android.CompareAPK(d, manifest, &apktool.Metadata{})
	require.ErrorIs(t, err, android.ErrAPKMismatch)
	require.ErrorContains(t, err, "targetSdkVersion is 34")
	require.ErrorContains(t, err, "versionName is 1.2.0")
}

func TestCompareAPKPrefersMetadata(t *testing.T) {
	t.Parallel()

	manifest := &android.Manifest{}
	require.NoError(t, xml.Unmarshal([]byte(manifestWithVersionsXML), manifest))

	metadata := &apktool.Metadata{}
	require.NoError(t, yaml.Unmarshal([]byte(strings.ReplaceAll(metadataYAML, "'3'", "'4'")), metadata))

	err := android.CompareAPK(newDescriptor(), manifest, metadata)
	require.ErrorIs(t, err, android.ErrAPKMismatch)
	require.ErrorContains(t, err, "versionCode is 4")
}

func TestCompareAPKTargetDefaultsToMin(t *testing.T) {
	t.Parallel()

	manifest := &android.Manifest{}
	require.NoError(t, xml.Unmarshal([]byte(strings.Replace(manifestWithVersionsXML, ` android:targetSdkVersion="34"`, "", 1)), manifest))

	d := newDescriptor()
	d.TargetSDKVersion = 21
	require.NoError(t, android.CompareAPK(d, manifest, nil))
}

func TestNewAssetLink(t *testing.T) {
	t.Parallel()

	link := android.NewAssetLink("com.example.multiplication_table", "AB:CD")
	require.Equal(t, []string{android.RelationHandleAllURLs}, link.Relation)
	require.Equal(t, android.NamespaceAndroidApp, link.Target.Namespace)
	require.Equal(t, "com.example.multiplication_table", link.Target.PackageName)
	require.Equal(t, []string{"AB:CD"}, link.Target.SHA256CertFingerprints)
}
