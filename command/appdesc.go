package command

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/gradle"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewAppdesc returns the root command for
// appdesc which acts as its CLI entrypoint.
func NewAppdesc() *cobra.Command {
	var (
		urlstr string
		cmd    = &cobra.Command{
			Use:   "appdesc",
			Short: "Validate and pass through Android packaging descriptors",
		}
	)

	cmd.PersistentFlags().StringVar(&urlstr, "url", "", "Base URL of an appdesc server.")

	cmd.AddCommand(
		newValidate(),
		newGradle(),
		newDigest(),
		newKeyStore(),
		newVerify(),
		newPublish(),
		newGet(),
		newWatch(),
		newServe(),
	)

	return cmd
}

func newValidate() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:   "validate DESCRIPTOR...",
			Short: "Validate packaging descriptors",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					log  = appdesc.LoggerFrom(cmd.Context())
					errs = make([]error, len(args))
					eg   = new(errgroup.Group)
				)

				eg.SetLimit(runtime.NumCPU())

				for i, name := range args {
					eg.Go(func() error {
						errs[i] = func() error {
							d, err := readDescriptor(cmd, name)
							if err != nil {
								return err
							}

							return appdesc.Validate(d)
						}()

						return nil
					})
				}

				_ = eg.Wait()

				for i, name := range args {
					if errs[i] != nil {
						log.Error(errs[i], "invalid descriptor", "name", name)
						errs[i] = fmt.Errorf("%s: %w", name, errs[i])
						continue
					}

					fmt.Fprintln(cmd.OutOrStdout(), name+": ok")
				}

				return errors.Join(errs...)
			},
		}
	)

	return cmd
}

func newGradle() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:   "gradle DESCRIPTOR",
			Short: "Render a descriptor as " + gradle.BuildFileName,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := readValidDescriptor(cmd, args[0])
				if err != nil {
					return err
				}

				return gradle.Render(cmd.OutOrStdout(), d)
			},
		}
	)

	return cmd
}

func newDigest() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:   "digest DESCRIPTOR",
			Short: "Print the digest of a descriptor",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := readDescriptor(cmd, args[0])
				if err != nil {
					return err
				}

				dgst, err := appdesc.Digest(d)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), dgst)
				return err
			},
		}
	)

	return cmd
}
