package android

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	//go:embed AndroidManifest.test.xml
	data []byte
)

func TestUnmarshalAndroidManifest(t *testing.T) {
	t.Parallel()

	manifest := &Manifest{}
	require.NoError(t, xml.NewDecoder(bytes.NewReader(data)).Decode(manifest))
	require.Equal(t, "com.example.multiplication_table", manifest.Package())
	require.Nil(t, manifest.UsesSDK)
	require.Empty(t, manifest.VersionCode())
}

func TestManifestUsesSDK(t *testing.T) {
	t.Parallel()

	manifest := &Manifest{}
	require.NoError(t, xml.Unmarshal([]byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app" android:versionCode="3" android:versionName="1.2.0">
	<uses-sdk android:minSdkVersion="21" android:targetSdkVersion="34"/>
</manifest>`), manifest))
	require.Equal(t, "3", manifest.VersionCode())
	require.Equal(t, "1.2.0", manifest.VersionName())
	require.NotNil(t, manifest.UsesSDK)
	require.Equal(t, "21", manifest.UsesSDK.MinSDKVersion())
	require.Equal(t, "34", manifest.UsesSDK.TargetSDKVersion())
}
