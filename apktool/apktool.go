package apktool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	MetadataName = "apktool.yml"
)

// Command represents the path to an `apktool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// DecodeOpts represent flags that can be passed to `apktool decode`.
type DecodeOpts struct {
	Force           bool
	NoResources     bool
	NoSources       bool
	OutputDirectory string
}

// Args returns the `apktool decode` flags for the DecodeOpts.
func (o *DecodeOpts) Args() []string {
	args := []string{}

	if o == nil {
		return args
	}

	if o.Force {
		args = append(args, "--force")
	}

	if o.NoResources {
		args = append(args, "--no-res")
	}

	if o.NoSources {
		args = append(args, "--no-src")
	}

	if o.OutputDirectory != "" {
		args = append(args, "--output", o.OutputDirectory)
	}

	return args
}

// Decode executes a command against `apktool` found at Command.
// It runs `apktool decode` against the .apk at name with flags
// derived from the given DecodeOpts.
func (c Command) Decode(ctx context.Context, name string, opts *DecodeOpts) error {
	args := append([]string{"decode"}, opts.Args()...)
	args = append(args, name)

	//nolint:gosec
	if out, err := exec.CommandContext(ctx, c.String(), args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s decode %s: %w: %s", c, name, err, out)
	}

	return nil
}

// ReadMetadata reads the apktool.yml that `apktool decode` wrote to dir.
func ReadMetadata(dir string) (*Metadata, error) {
	f, err := os.Open(filepath.Join(dir, MetadataName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	metadata := &Metadata{}
	if err := yaml.NewDecoder(f).Decode(metadata); err != nil {
		return nil, fmt.Errorf("decode %s: %w", MetadataName, err)
	}

	return metadata, nil
}
