package deschttp

import (
	"fmt"
	"net/http"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/android"
	"github.com/frantjc/appdesc/internal/descblob"
	xslice "github.com/frantjc/x/slice"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const (
	paramChannel = `{channel:[a-zA-Z0-9-_]{1,32}}`
)

// NewHandler returns the HTTP surface over the Releases in store.
func NewHandler(store *descblob.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	})

	r.Get("/readyz", handleErr(func(w http.ResponseWriter, r *http.Request) error {
		if ok, err := store.Bucket.IsAccessible(r.Context()); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("bucket is not accessible")
		}

		_, err := fmt.Fprint(w, "ok")
		return err
	}))

	r.Get("/api/v1/channels", handleErr(handleChannels(store)))
	r.Get(fmt.Sprintf("/api/v1/channels/%s/releases", paramChannel), handleErr(handleReleases(store)))
	r.Get(fmt.Sprintf("/api/v1/channels/%s/releases/latest", paramChannel), handleErr(handleLatestRelease(store)))
	r.Get(android.AssetLinksPath, handleErr(handleAssetLinks(store)))

	r.NotFound(http.NotFound)

	return r
}

func handleErr(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			appdesc.LoggerFrom(r.Context()).Error(err, "handling request", "method", r.Method, "path", r.URL.Path)
			_ = respondErrorJSON(w, err, wantsPretty(r))
		}
	}
}

func handleChannels(store *descblob.Store) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		channels, err := store.Channels(r.Context())
		if err != nil {
			return err
		}

		return respondJSON(w, channels, wantsPretty(r))
	}
}

func handleReleases(store *descblob.Store) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		releases, err := store.List(r.Context(), chi.URLParam(r, "channel"))
		if err != nil {
			return err
		}

		return respondJSON(w, releases, wantsPretty(r))
	}
}

func handleLatestRelease(store *descblob.Store) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		release, err := store.Latest(r.Context(), chi.URLParam(r, "channel"))
		if err != nil {
			return err
		}

		return respondJSON(w, release, wantsPretty(r))
	}
}

// handleAssetLinks serves a Digital Asset Links statement for the latest
// Release of each channel that was published with certificate fingerprints,
// merging channels that share an applicationId.
func handleAssetLinks(store *descblob.Store) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		var (
			ctx             = r.Context()
			fingerprintsFor = map[string][]string{}
			packageNames    = []string{}
		)

		channels, err := store.Channels(ctx)
		if err != nil {
			return err
		}

		for _, channel := range channels {
			release, err := store.Latest(ctx, channel)
			if err != nil {
				return err
			}

			if len(release.SHA256CertFingerprints) == 0 {
				continue
			}

			if _, ok := fingerprintsFor[release.ApplicationID]; !ok {
				packageNames = append(packageNames, release.ApplicationID)
			}

			for _, fingerprint := range release.SHA256CertFingerprints {
				if !xslice.Includes(fingerprintsFor[release.ApplicationID], fingerprint) {
					fingerprintsFor[release.ApplicationID] = append(fingerprintsFor[release.ApplicationID], fingerprint)
				}
			}
		}

		return respondJSON(w,
			xslice.Map(packageNames, func(packageName string, _ int) android.AssetLink {
				return android.NewAssetLink(packageName, fingerprintsFor[packageName]...)
			}),
			wantsPretty(r),
		)
	}
}
