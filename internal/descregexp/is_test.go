package descregexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsApplicationID(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{
		"com.example.app",
		"com.example.multiplication_table",
		"io.Example2.App_3",
		"a.b",
	} {
		require.True(t, IsApplicationID(valid), valid)
	}

	for _, invalid := range []string{
		"",
		"app",
		"com.example.",
		".com.example",
		"com..example",
		"com.example app",
		"com.example.1app",
		"com.-example",
		"_com.example",
	} {
		require.False(t, IsApplicationID(invalid), invalid)
	}
}

func TestIsChannel(t *testing.T) {
	t.Parallel()

	require.True(t, IsChannel("multiplication-table"))
	require.False(t, IsChannel("multiplication/table"))
	require.False(t, IsChannel(""))
}

func TestIsAPK(t *testing.T) {
	t.Parallel()

	require.True(t, IsAPK("build/app/outputs/app-release.apk"))
	require.True(t, IsAPK("APP.APK"))
	require.False(t, IsAPK("app.ipa"))
}
