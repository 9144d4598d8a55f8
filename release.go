package appdesc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/frantjc/appdesc/internal/descerr"
	"github.com/frantjc/appdesc/internal/descregexp"
	"github.com/opencontainers/go-digest"
)

var (
	ErrApplicationIDChanged     = errors.New("application identifier changed")
	ErrVersionCodeNotIncreasing = errors.New("version code not increasing")
)

// Release records a Descriptor that was published to a channel.
type Release struct {
	ID                     string        `json:"id,omitempty"`
	Channel                string        `json:"channel,omitempty"`
	ApplicationID          string        `json:"applicationId"`
	VersionCode            int           `json:"versionCode"`
	VersionName            string        `json:"versionName,omitempty"`
	Digest                 digest.Digest `json:"digest,omitempty"`
	SHA256CertFingerprints []string      `json:"sha256CertFingerprints,omitempty"`
	Published              time.Time     `json:"published,omitempty"`
}

// ValidateRelease checks the identifying fields of r.
func ValidateRelease(r *Release) error {
	errs := []error{}

	if r.ID != "" && !descregexp.IsUUID(r.ID) {
		errs = append(errs, fmt.Errorf("invalid release ID %s", r.ID))
	}

	if r.Channel != "" && !descregexp.IsChannel(r.Channel) {
		errs = append(errs, fmt.Errorf("invalid channel %s", r.Channel))
	}

	return descerr.HTTPStatusCodeError(errors.Join(errs...), http.StatusBadRequest)
}

// CheckRelease reports whether d may be published after history. The
// applicationId must equal that of every prior release and the versionCode
// must exceed every prior versionCode.
func CheckRelease(history []Release, d *Descriptor) error {
	errs := []error{}

	if len(history) > 0 {
		if first := history[0].ApplicationID; first != d.ApplicationID {
			errs = append(errs, fmt.Errorf("%w: %s was published as %s", ErrApplicationIDChanged, d.ApplicationID, first))
		}
	}

	if latest := Latest(history); latest != nil && d.VersionCode <= latest.VersionCode {
		errs = append(errs, fmt.Errorf("%w: %d does not exceed %d (%s)", ErrVersionCodeNotIncreasing, d.VersionCode, latest.VersionCode, latest.VersionName))
	}

	return descerr.HTTPStatusCodeError(errors.Join(errs...), http.StatusConflict)
}

// Latest returns the release with the highest versionCode, or nil.
func Latest(history []Release) *Release {
	var latest *Release
	for i := range history {
		if latest == nil || history[i].VersionCode > latest.VersionCode {
			latest = &history[i]
		}
	}

	return latest
}

// Digest returns the digest of d's canonical encoding. SourceRoot is made
// relative to d.Dir and passwords are omitted so that the digest is stable
// across checkouts and does not leak credentials.
func Digest(d *Descriptor) (digest.Digest, error) {
	canonical := *d

	if canonical.SourceRoot != "" {
		canonical.SourceRoot = filepath.ToSlash(d.Rel(d.SourceRoot))
	}

	if d.SigningConfigs != nil {
		canonical.SigningConfigs = make(map[string]SigningConfig, len(d.SigningConfigs))
		for k, sc := range d.SigningConfigs {
			canonical.SigningConfigs[k] = SigningConfig{
				KeyAlias:  sc.KeyAlias,
				StoreFile: sc.StoreFile,
			}
		}
	}

	b, err := json.Marshal(&canonical)
	if err != nil {
		return "", err
	}

	return digest.FromBytes(b), nil
}
