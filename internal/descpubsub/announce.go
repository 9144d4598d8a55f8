package descpubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/frantjc/appdesc"
	"gocloud.dev/pubsub"
)

const (
	MetadataChannel       = "channel"
	MetadataApplicationID = "applicationId"
	MetadataVersionCode   = "versionCode"
)

// Announce sends release to topic as JSON. Its channel, applicationId
// and versionCode are duplicated into the message metadata so that
// subscribers can filter without decoding the body.
func Announce(ctx context.Context, topic *pubsub.Topic, release *appdesc.Release) error {
	body, err := json.Marshal(release)
	if err != nil {
		return err
	}

	return topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			MetadataChannel:       release.Channel,
			MetadataApplicationID: release.ApplicationID,
			MetadataVersionCode:   strconv.Itoa(release.VersionCode),
		},
	})
}

// Watch calls fn with each Release announced on subscription for channel,
// or for every channel if channel is empty, until ctx is done or fn errors.
// Announcements for other channels are acknowledged and skipped.
func Watch(ctx context.Context, subscription *pubsub.Subscription, channel string, fn func(*appdesc.Release) error) error {
	for {
		msg, err := subscription.Receive(ctx)
		if err != nil {
			return err
		}

		if channel != "" && msg.Metadata[MetadataChannel] != channel {
			msg.Ack()
			continue
		}

		release, err := decode(msg)
		msg.Ack()
		if err != nil {
			return err
		}

		if err := fn(release); err != nil {
			return err
		}
	}
}

func decode(msg *pubsub.Message) (*appdesc.Release, error) {
	release := &appdesc.Release{}
	if err := json.Unmarshal(msg.Body, release); err != nil {
		return nil, fmt.Errorf("decode release announcement: %w", err)
	}

	return release, nil
}
