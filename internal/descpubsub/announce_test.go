package descpubsub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/internal/descpubsub"
	"github.com/stretchr/testify/require"
	"gocloud.dev/pubsub/mempubsub"
)

func TestAnnounce(t *testing.T) {
	t.Parallel()

	var (
		ctx, cancel  = context.WithTimeout(context.Background(), 10*time.Second)
		topic        = mempubsub.NewTopic()
		subscription = mempubsub.NewSubscription(topic, time.Minute)
		release      = &appdesc.Release{
			ID:            "0b1b6a0c-3f0e-4bd4-9c59-6e6f3d2a9d2b",
			Channel:       "stable",
			ApplicationID: "com.example.multiplication_table",
			VersionCode:   3,
			VersionName:   "1.2.0",
		}
	)
	defer cancel()
	defer func() {
		_ = topic.Shutdown(ctx)
		_ = subscription.Shutdown(ctx)
	}()

	require.NoError(t, descpubsub.Announce(ctx, topic, release))

	errDone := errors.New("done")
	require.ErrorIs(t, descpubsub.Watch(ctx, subscription, "", func(received *appdesc.Release) error {
		require.Equal(t, release.ID, received.ID)
		require.Equal(t, release.Channel, received.Channel)
		require.Equal(t, release.VersionCode, received.VersionCode)
		return errDone
	}), errDone)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	var (
		ctx, cancel  = context.WithTimeout(context.Background(), 10*time.Second)
		topic        = mempubsub.NewTopic()
		subscription = mempubsub.NewSubscription(topic, time.Minute)
		errDone      = errors.New("done")
	)
	defer cancel()
	defer func() {
		_ = topic.Shutdown(ctx)
		_ = subscription.Shutdown(ctx)
	}()

	for i, channel := range []string{"beta", "stable", "beta", "stable"} {
		require.NoError(t, descpubsub.Announce(ctx, topic, &appdesc.Release{
			Channel:       channel,
			ApplicationID: "com.example.multiplication_table",
			VersionCode:   i + 1,
		}))
	}

	versionCodes := []int{}
	err := descpubsub.Watch(ctx, subscription, "stable", func(release *appdesc.Release) error {
		require.Equal(t, "stable", release.Channel)
		versionCodes = append(versionCodes, release.VersionCode)
		if len(versionCodes) == 2 {
			return errDone
		}
		return nil
	})
	require.ErrorIs(t, err, errDone)
	require.Equal(t, []int{2, 4}, versionCodes)
}

func TestWatchStopsWithContext(t *testing.T) {
	t.Parallel()

	var (
		ctx, cancel  = context.WithTimeout(context.Background(), 100*time.Millisecond)
		topic        = mempubsub.NewTopic()
		subscription = mempubsub.NewSubscription(topic, time.Minute)
	)
	defer cancel()
	defer func() {
		_ = topic.Shutdown(context.Background())
		_ = subscription.Shutdown(context.Background())
	}()

	err := descpubsub.Watch(ctx, subscription, "", func(*appdesc.Release) error {
		return nil
	})
	require.Error(t, err)
	require.Error(t, ctx.Err())
}
