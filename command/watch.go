package command

import (
	"errors"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/internal/descpubsub"
	"github.com/spf13/cobra"
	"gocloud.dev/pubsub"
)

var errWatchDone = errors.New("watch done")

func newWatch() *cobra.Command {
	var (
		pubsuburlstr string
		count        int
		output       *string
		cmd          = &cobra.Command{
			Use:   "watch [CHANNEL]",
			Short: "Print releases as they are announced",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx     = cmd.Context()
					log     = appdesc.LoggerFrom(ctx)
					channel string
				)

				if len(args) > 0 {
					channel = args[0]
					if err := appdesc.ValidateRelease(&appdesc.Release{Channel: channel}); err != nil {
						return err
					}
				}

				log.Info("opening subscription " + pubsuburlstr)
				subscription, err := pubsub.OpenSubscription(ctx, pubsuburlstr)
				if err != nil {
					return err
				}
				defer subscription.Shutdown(ctx)

				received := 0
				if err := descpubsub.Watch(ctx, subscription, channel, func(release *appdesc.Release) error {
					log.V(1).Info("received release", "id", release.ID, "channel", release.Channel, "versionCode", release.VersionCode)

					if err := encode(cmd, *output, release); err != nil {
						return err
					}

					if received++; count > 0 && received >= count {
						return errWatchDone
					}

					return nil
				}); !errors.Is(err, errWatchDone) && ctx.Err() == nil {
					return err
				}

				return nil
			},
		}
	)

	cmd.Flags().StringVar(&pubsuburlstr, "pubsub", "", "Pubsub subscription URL that releases are announced to.")
	_ = cmd.MarkFlagRequired("pubsub")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many releases. 0 watches until interrupted.")
	output = addOutputFlag(cmd)

	return cmd
}
