package appdesc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/frantjc/appdesc/internal/descregexp"
	"gopkg.in/yaml.v3"
)

// Format is an encoding a Descriptor can be read from.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromExt returns the Format for the extension of name.
func FormatFromExt(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unable to determine descriptor format from extension %q", ext)
	}
}

// Decode decodes a Descriptor of the given Format from r into d.
// Unknown fields are rejected.
func Decode(r io.Reader, format Format, d *Descriptor) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(d); err != nil && err != io.EOF {
			return fmt.Errorf("decode yaml descriptor: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(d)
		if err != nil {
			return fmt.Errorf("decode toml descriptor: %w", err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("decode toml descriptor: unknown field %s", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(d); err != nil {
			return fmt.Errorf("decode json descriptor: %w", err)
		}

		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return fmt.Errorf("decode json descriptor: unexpected content after descriptor")
		}
	default:
		return fmt.Errorf("unsupported descriptor format %q", format)
	}

	return nil
}

// Defaulter fills in zero-valued fields of a Descriptor that has just been read.
type Defaulter interface {
	Default(*Descriptor) error
}

// DefaulterFunc adapts a function to a Defaulter.
type DefaulterFunc func(*Descriptor) error

func (f DefaulterFunc) Default(d *Descriptor) error {
	return f(d)
}

// ReadOpts configure ReadFile.
type ReadOpts struct {
	Defaulters []Defaulter
	Getenv     func(string) string
}

// ReadOpt configures ReadFile.
type ReadOpt func(*ReadOpts)

// WithDefaulters runs the given Defaulters, in order, after paths are resolved.
func WithDefaulters(defaulters ...Defaulter) ReadOpt {
	return func(o *ReadOpts) {
		o.Defaulters = append(o.Defaulters, defaulters...)
	}
}

// WithGetenv overrides how ${ENV} references in passwords are expanded.
func WithGetenv(getenv func(string) string) ReadOpt {
	return func(o *ReadOpts) {
		o.Getenv = getenv
	}
}

// ReadFile reads the Descriptor at name. SourceRoot is resolved against the
// Descriptor's own directory and ${ENV} references in passwords are expanded.
// StoreFile is kept as written; resolve it with Descriptor.Path.
// ReadFile does not validate the Descriptor; see Validate.
func ReadFile(name string, opts ...ReadOpt) (*Descriptor, error) {
	o := &ReadOpts{Getenv: os.Getenv}
	for _, opt := range opts {
		opt(o)
	}

	format, err := FormatFromExt(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	defer f.Close()

	d := &Descriptor{}
	if err := Decode(f, format, d); err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", name, err)
	}

	if d.Dir, err = filepath.Abs(filepath.Dir(name)); err != nil {
		return nil, err
	}

	if d.SourceRoot != "" {
		d.SourceRoot = filepath.Clean(d.Path(d.SourceRoot))
	}

	for k, sc := range d.SigningConfigs {
		sc.KeyPassword = expandEnv(sc.KeyPassword, o.Getenv)
		sc.StorePassword = expandEnv(sc.StorePassword, o.Getenv)
		d.SigningConfigs[k] = sc
	}

	for _, defaulter := range o.Defaulters {
		if err := defaulter.Default(d); err != nil {
			return nil, fmt.Errorf("default descriptor %s: %w", name, err)
		}
	}

	return d, nil
}

// expandEnv replaces whole ${NAME} references in s. Any other '$' is literal.
func expandEnv(s string, getenv func(string) string) string {
	return descregexp.EnvReference.ReplaceAllStringFunc(s, func(ref string) string {
		return getenv(descregexp.EnvReference.FindStringSubmatch(ref)[1])
	})
}
