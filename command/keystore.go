package command

import (
	"context"
	"fmt"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/keytool"
	"github.com/spf13/cobra"
)

func keyFingerprint(ctx context.Context, kt string, d *appdesc.Descriptor, buildType string) (string, error) {
	sc, err := d.SigningIdentity(buildType)
	if err != nil {
		return "", err
	} else if sc.StoreFile == "" {
		return "", fmt.Errorf("build type %s is signed with the implicit debug key store", buildType)
	}

	storeFile := d.Path(sc.StoreFile)

	appdesc.LoggerFrom(ctx).V(1).Info("reading key store entry", "storeFile", storeFile, "keyAlias", sc.KeyAlias)

	return keytool.Command(kt).KeyFingerprint(ctx, storeFile, sc.StorePassword, sc.KeyAlias)
}

func newKeyStore() *cobra.Command {
	var (
		kt        string
		buildType string
		cmd       = &cobra.Command{
			Use:   "keystore DESCRIPTOR",
			Short: "Verify the key store entry a build type is signed with",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := readValidDescriptor(cmd, args[0])
				if err != nil {
					return err
				}

				fingerprint, err := keyFingerprint(cmd.Context(), kt, d, buildType)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), fingerprint)
				return err
			},
		}
	)

	cmd.Flags().StringVar(&kt, "keytool", "keytool", "Path to keytool.")
	cmd.Flags().StringVarP(&buildType, "build-type", "t", appdesc.BuildTypeRelease, "Build type whose signing config to verify.")

	return cmd
}
