package deschttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/android"
	"github.com/frantjc/appdesc/internal/descblob"
	"github.com/frantjc/appdesc/internal/deschttp"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newServer(t *testing.T) (*httptest.Server, *descblob.Store) {
	t.Helper()

	var (
		bucket = memblob.OpenBucket(nil)
		store  = &descblob.Store{Bucket: bucket}
		srv    = httptest.NewServer(deschttp.NewHandler(store))
	)
	t.Cleanup(func() {
		srv.Close()
		_ = bucket.Close()
	})

	return srv, store
}

func newDescriptor(applicationID string, versionCode int) *appdesc.Descriptor {
	return &appdesc.Descriptor{
		ApplicationID:    applicationID,
		MinSDKVersion:    21,
		TargetSDKVersion: 34,
		VersionCode:      versionCode,
		VersionName:      "1.0.0",
	}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}

	return res.StatusCode
}

func TestReleases(t *testing.T) {
	t.Parallel()

	var (
		ctx        = context.Background()
		srv, store = newServer(t)
	)

	for _, versionCode := range []int{1, 2} {
		_, err := store.Publish(ctx, "stable", newDescriptor("com.example.app", versionCode))
		require.NoError(t, err)
	}

	channels := []string{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/channels", &channels))
	require.Equal(t, []string{"stable"}, channels)

	releases := []appdesc.Release{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/channels/stable/releases", &releases))
	require.Len(t, releases, 2)

	latest := &appdesc.Release{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/channels/stable/releases/latest", latest))
	require.Equal(t, 2, latest.VersionCode)

	body := map[string]string{}
	require.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/channels/beta/releases/latest", &body))
	require.NotEmpty(t, body["error"])
}

func TestAssetLinks(t *testing.T) {
	t.Parallel()

	var (
		ctx        = context.Background()
		srv, store = newServer(t)
	)

	links := []android.AssetLink{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+android.AssetLinksPath, &links))
	require.Empty(t, links)

	_, err := store.Publish(ctx, "stable", newDescriptor("com.example.app", 1), "AB:CD")
	require.NoError(t, err)

	_, err = store.Publish(ctx, "beta", newDescriptor("com.example.app", 1), "AB:CD", "EF:01")
	require.NoError(t, err)

	_, err = store.Publish(ctx, "unsigned", newDescriptor("com.example.unsigned", 1))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+android.AssetLinksPath, &links))
	require.Len(t, links, 1)
	require.Equal(t, "com.example.app", links[0].Target.PackageName)
	require.ElementsMatch(t, []string{"AB:CD", "EF:01"}, links[0].Target.SHA256CertFingerprints)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode, path)
	}

	res, err := http.Get(srv.URL + "/api/v1/channels/not%2Fa%2Fchannel/releases")
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}
