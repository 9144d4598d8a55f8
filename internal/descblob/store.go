package descblob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/internal/descerr"
	"github.com/frantjc/appdesc/internal/descregexp"
	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
)

// Store is a ledger of Releases kept in a bucket, one
// JSON document per channel.
type Store struct {
	Bucket *blob.Bucket
	Now    func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}

	return s.Now()
}

func validateChannel(channel string) error {
	if !descregexp.IsChannel(channel) {
		return descerr.HTTPStatusCodeError(fmt.Errorf("invalid channel %q", channel), http.StatusBadRequest)
	}

	return nil
}

// List returns the Releases published to channel, oldest first.
// A channel that has never been published to has no Releases.
func (s *Store) List(ctx context.Context, channel string) ([]appdesc.Release, error) {
	if err := validateChannel(channel); err != nil {
		return nil, err
	}

	b, err := s.Bucket.ReadAll(ctx, ReleasesKey(channel))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return []appdesc.Release{}, nil
	} else if err != nil {
		return nil, err
	}

	releases := []appdesc.Release{}
	if err := json.Unmarshal(b, &releases); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", ReleasesKey(channel), err)
	}

	return releases, nil
}

// Latest returns the Release with the highest versionCode in channel.
func (s *Store) Latest(ctx context.Context, channel string) (*appdesc.Release, error) {
	releases, err := s.List(ctx, channel)
	if err != nil {
		return nil, err
	}

	latest := appdesc.Latest(releases)
	if latest == nil {
		return nil, descerr.HTTPStatusCodeError(fmt.Errorf("%w: %s", ErrChannelNotFound, channel), http.StatusNotFound)
	}

	return latest, nil
}

// Channels returns the name of every channel with at least one Release.
func (s *Store) Channels(ctx context.Context) ([]string, error) {
	var (
		channels = []string{}
		iter     = s.Bucket.List(&blob.ListOptions{Delimiter: "/"})
	)

	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		if !obj.IsDir {
			continue
		}

		channel := strings.TrimSuffix(obj.Key, "/")
		if ok, err := s.Bucket.Exists(ctx, ReleasesKey(channel)); err != nil {
			return nil, err
		} else if ok {
			channels = append(channels, channel)
		}
	}

	return channels, nil
}

// Publish appends a Release of d to channel. It fails without writing
// anything if d may not follow the channel's existing Releases.
// Publish does not validate d; see appdesc.Validate.
func (s *Store) Publish(ctx context.Context, channel string, d *appdesc.Descriptor, fingerprints ...string) (*appdesc.Release, error) {
	releases, err := s.List(ctx, channel)
	if err != nil {
		return nil, err
	}

	if err := appdesc.CheckRelease(releases, d); err != nil {
		return nil, err
	}

	dgst, err := appdesc.Digest(d)
	if err != nil {
		return nil, err
	}

	release := appdesc.Release{
		ID:                     uuid.NewString(),
		Channel:                channel,
		ApplicationID:          d.ApplicationID,
		VersionCode:            d.VersionCode,
		VersionName:            d.VersionName,
		Digest:                 dgst,
		SHA256CertFingerprints: fingerprints,
		Published:              s.now(),
	}

	b, err := json.MarshalIndent(append(releases, release), "", "  ")
	if err != nil {
		return nil, err
	}

	if err := s.Bucket.WriteAll(ctx, ReleasesKey(channel), b, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return nil, err
	}

	return &release, nil
}
