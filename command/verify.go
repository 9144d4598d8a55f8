package command

import (
	"fmt"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/android"
	"github.com/frantjc/appdesc/internal/descregexp"
	"github.com/spf13/cobra"
)

func newVerify() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:   "verify",
			Short: "Verify build outputs against a descriptor",
		}
	)

	cmd.AddCommand(newVerifyAPK())

	return cmd
}

func newVerifyAPK() *cobra.Command {
	var (
		apkt, kt  string
		buildType string
		signature bool
		cmd       = &cobra.Command{
			Use:   "apk DESCRIPTOR APK",
			Short: "Verify that an .apk was built from a descriptor",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx = cmd.Context()
					log = appdesc.LoggerFrom(ctx)
				)

				if !descregexp.IsAPK(args[1]) {
					return fmt.Errorf("%s is not an .apk", args[1])
				}

				d, err := readValidDescriptor(cmd, args[0])
				if err != nil {
					return err
				}

				var fingerprint string
				if signature {
					if fingerprint, err = keyFingerprint(ctx, kt, d, buildType); err != nil {
						return err
					}
				}

				apk := android.NewAPKDecoder(args[1], android.WithAPKTool(apkt), android.WithKeytool(kt))
				defer apk.Close()

				log.V(1).Info("decoding apk " + args[1])
				if err := android.VerifyAPK(ctx, apk, d, fingerprint); err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), args[1]+": ok")
				return err
			},
		}
	)

	cmd.Flags().StringVar(&apkt, "apktool", "apktool", "Path to apktool.")
	cmd.Flags().StringVar(&kt, "keytool", "keytool", "Path to keytool.")
	cmd.Flags().StringVarP(&buildType, "build-type", "t", appdesc.BuildTypeRelease, "Build type the .apk was built as.")
	cmd.Flags().BoolVar(&signature, "signature", false, "Also verify that the .apk is signed by the build type's key store entry.")

	return cmd
}
