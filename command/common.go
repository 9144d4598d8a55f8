package command

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/flutter"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SetCommon adds the flags and behavior shared by every appdesc
// command to cmd: verbosity, a logger in the context and versioning.
func SetCommon(cmd *cobra.Command, version string) *cobra.Command {
	var verbosity int
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "V", fmt.Sprintf("Verbosity for %s.", cmd.Name()))
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose := os.Getenv("APPDESC_VERBOSE"); verbose != "" && xslice.Some([]string{"1", "y", "yes", "true", "t"}, func(s string, _ int) bool {
			return strings.EqualFold(s, verbose)
		}) && verbosity < 2 {
			verbosity = 2
		}

		cmd.SetContext(appdesc.WithLogger(cmd.Context(), appdesc.NewLogger(cmd.ErrOrStderr(), verbosity)))
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Version = version
	cmd.SetVersionTemplate("{{ .Name }}{{ .Version }} " + runtime.Version() + "\n")

	return cmd
}

func readDescriptor(cmd *cobra.Command, name string) (*appdesc.Descriptor, error) {
	appdesc.LoggerFrom(cmd.Context()).V(1).Info("reading descriptor " + name)
	return appdesc.ReadFile(name, appdesc.WithDefaulters(flutter.Defaulter()))
}

func readValidDescriptor(cmd *cobra.Command, name string) (*appdesc.Descriptor, error) {
	d, err := readDescriptor(cmd, name)
	if err != nil {
		return nil, err
	}

	if err := appdesc.Validate(d); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return d, nil
}

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func addOutputFlag(cmd *cobra.Command) *string {
	return cmd.Flags().StringP("output", "o", outputYAML, "Output format. One of: yaml, json.")
}

func encode(cmd *cobra.Command, output string, v any) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
