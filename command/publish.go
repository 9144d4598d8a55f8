package command

import (
	"fmt"
	"net/url"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/internal/descblob"
	"github.com/frantjc/appdesc/internal/descpubsub"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"
	"gocloud.dev/pubsub"
	"golang.org/x/mod/semver"
)

func newPublish() *cobra.Command {
	var (
		bloburlstr   string
		pubsuburlstr string
		kt           string
		fingerprints []string
		signature    bool
		output       *string
		cmd          = &cobra.Command{
			Use:   "publish CHANNEL DESCRIPTOR",
			Short: "Record a release of a descriptor to a channel",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx     = cmd.Context()
					log     = appdesc.LoggerFrom(ctx)
					channel = args[0]
				)

				if err := appdesc.ValidateRelease(&appdesc.Release{Channel: channel}); err != nil {
					return err
				}

				d, err := readValidDescriptor(cmd, args[1])
				if err != nil {
					return err
				}

				if signature {
					fingerprint, err := keyFingerprint(ctx, kt, d, appdesc.BuildTypeRelease)
					if err != nil {
						return err
					}

					fingerprints = append(fingerprints, fingerprint)
				}

				log.Info("opening bucket " + bloburlstr)
				bucket, err := blob.OpenBucket(ctx, bloburlstr)
				if err != nil {
					return err
				}
				defer bucket.Close()

				store := &descblob.Store{Bucket: bucket}

				if latest, err := store.Latest(ctx, channel); err == nil {
					if v, w := "v"+d.VersionName, "v"+latest.VersionName; semver.IsValid(v) && semver.IsValid(w) && semver.Compare(v, w) < 0 {
						log.Info("versionName regresses", "versionName", d.VersionName, "latest", latest.VersionName)
					}
				}

				release, err := store.Publish(ctx, channel, d, fingerprints...)
				if err != nil {
					return err
				}

				log.Info("published release", "id", release.ID, "channel", channel, "versionCode", release.VersionCode)

				if pubsuburlstr != "" {
					log.Info("opening topic " + pubsuburlstr)
					topic, err := pubsub.OpenTopic(ctx, pubsuburlstr)
					if err != nil {
						return err
					}
					defer topic.Shutdown(ctx)

					if err := descpubsub.Announce(ctx, topic, release); err != nil {
						return err
					}
				}

				return encode(cmd, *output, release)
			},
		}
	)

	cmd.Flags().StringVar(&bloburlstr, "blob", "mem://", "Blob URL of the release ledger.")
	cmd.Flags().StringVar(&pubsuburlstr, "pubsub", "", "Pubsub topic URL to announce releases to.")
	cmd.Flags().StringVar(&kt, "keytool", "keytool", "Path to keytool.")
	cmd.Flags().StringSliceVar(&fingerprints, "fingerprint", nil, "SHA-256 certificate fingerprint to record with the release.")
	cmd.Flags().BoolVar(&signature, "signature", false, "Record the fingerprint of the release key store entry.")
	output = addOutputFlag(cmd)

	return cmd
}

func newGet() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:   "get",
			Short: "Get releases from an appdesc server",
		}
	)

	cmd.AddCommand(newGetChannels(), newGetReleases())

	return cmd
}

func newClient(cmd *cobra.Command) (*appdesc.Client, error) {
	cli := new(appdesc.Client)

	if urlstr := cmd.Flag("url").Value.String(); urlstr != "" {
		var err error
		if cli.Base, err = url.Parse(urlstr); err != nil {
			return nil, err
		}
	}

	return cli, nil
}

func newGetChannels() *cobra.Command {
	var (
		output *string
		cmd    = &cobra.Command{
			Use:   "channels",
			Short: "List channels",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cli, err := newClient(cmd)
				if err != nil {
					return err
				}

				channels, err := cli.GetChannels(cmd.Context())
				if err != nil {
					return err
				}

				return encode(cmd, *output, channels)
			},
		}
	)

	output = addOutputFlag(cmd)

	return cmd
}

func newGetReleases() *cobra.Command {
	var (
		latest bool
		output *string
		cmd    = &cobra.Command{
			Use:   "releases CHANNEL",
			Short: "List the releases of a channel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cli, err := newClient(cmd)
				if err != nil {
					return err
				}

				if latest {
					release, err := cli.GetLatestRelease(cmd.Context(), args[0])
					if err != nil {
						return err
					}

					return encode(cmd, *output, release)
				}

				releases, err := cli.GetReleases(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if len(releases) == 0 {
					return fmt.Errorf("no releases in channel %s", args[0])
				}

				return encode(cmd, *output, releases)
			},
		}
	)

	cmd.Flags().BoolVar(&latest, "latest", false, "Only get the release with the highest versionCode.")
	output = addOutputFlag(cmd)

	return cmd
}
