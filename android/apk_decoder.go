package android

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/frantjc/appdesc/apktool"
	"github.com/frantjc/appdesc/keytool"
)

// APKDecoder lazily decodes the .apk at Name with `apktool`
// and reads its contents. It must be closed to clean up the
// decoded directory.
type APKDecoder struct {
	Name string

	apktool  string
	keytool  string
	dir      string
	tmp      bool
	decoded  bool
	manifest *Manifest
	metadata *apktool.Metadata
}

type APKDecoderOpt func(*APKDecoder)

func WithAPKTool(b string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.apktool = b
	}
}

func WithKeytool(b string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.keytool = b
	}
}

// WithDir makes the APKDecoder decode into dir. If dir already holds
// the output of `apktool decode`, it is read as-is.
func WithDir(dir string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.dir = dir
	}
}

func NewAPKDecoder(name string, opts ...APKDecoderOpt) *APKDecoder {
	ad := &APKDecoder{Name: name, keytool: "keytool", apktool: "apktool"}

	for _, opt := range opts {
		opt(ad)
	}

	return ad
}

func (a *APKDecoder) decode(ctx context.Context) error {
	if a.decoded {
		return nil
	} else if a.dir == "" {
		var err error
		if a.dir, err = os.MkdirTemp("", "appdesc-apk-*"); err != nil {
			return err
		}
		a.tmp = true
	} else if _, err := os.Stat(filepath.Join(a.dir, apktool.MetadataName)); err == nil {
		a.decoded = true
		return nil
	}

	opts := &apktool.DecodeOpts{
		Force:           true,
		NoSources:       true,
		OutputDirectory: a.dir,
	}

	if err := apktool.Command(a.apktool).Decode(ctx, a.Name, opts); err != nil {
		return err
	}

	a.decoded = true

	return nil
}

func (a *APKDecoder) Manifest(ctx context.Context) (*Manifest, error) {
	if err := a.decode(ctx); err != nil {
		return nil, err
	}

	if a.manifest != nil {
		return a.manifest, nil
	}

	file, err := os.Open(filepath.Join(a.dir, AndroidManifestName))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	manifest := &Manifest{}
	if err := xml.NewDecoder(file).Decode(manifest); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AndroidManifestName, err)
	}

	a.manifest = manifest

	return a.manifest, nil
}

func (a *APKDecoder) Metadata(ctx context.Context) (*apktool.Metadata, error) {
	if err := a.decode(ctx); err != nil {
		return nil, err
	}

	if a.metadata != nil {
		return a.metadata, nil
	}

	metadata, err := apktool.ReadMetadata(a.dir)
	if err != nil {
		return nil, err
	}

	a.metadata = metadata

	return a.metadata, nil
}

// SHA256CertFingerprints returns the fingerprint of the certificate
// that signed the .apk. It does not require decoding.
func (a *APKDecoder) SHA256CertFingerprints(ctx context.Context) (string, error) {
	return keytool.Command(a.keytool).SHA256CertFingerprints(ctx, a.Name)
}

// Close removes the decoded directory if the APKDecoder created it.
// The .apk itself is left in place.
func (a *APKDecoder) Close() error {
	if a.decoded && a.tmp {
		if err := os.RemoveAll(a.dir); err != nil {
			return err
		}
		a.dir = ""
	}

	a.decoded = false
	a.metadata = nil
	a.manifest = nil

	return nil
}
