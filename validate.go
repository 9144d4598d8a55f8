package appdesc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/frantjc/appdesc/internal/descerr"
	"github.com/frantjc/appdesc/internal/descregexp"
)

var (
	ErrInvalidApplicationID   = errors.New("invalid application identifier")
	ErrPlatformVersionOrder   = errors.New("platform version ordering violation")
	ErrInvalidVersionCode     = errors.New("invalid version code")
	ErrInvalidSigningConfig   = errors.New("invalid signing config")
	ErrKeyStoreNotFound       = errors.New("key store not found")
	ErrKeyStoreUnreadable     = errors.New("key store unreadable")
	ErrKeyStoreCorrupt        = errors.New("key store corrupt")
	ErrUnknownSigningConfig   = errors.New("unknown signing config")
	ErrReleaseSignedWithDebug = errors.New("release build type signed with debug signing config")
)

var (
	magicJKS   = []byte{0xFE, 0xED, 0xFE, 0xED}
	magicJCEKS = []byte{0xCE, 0xCE, 0xCE, 0xCE}
	// PKCS#12 key stores are DER, so they begin with a SEQUENCE tag.
	magicPKCS12 = []byte{0x30}
)

// Validate runs the validation pass over d. It returns every violation
// found, each wrapping one of the Err* sentinels, or nil if d is valid.
func Validate(d *Descriptor) error {
	if d == nil {
		return descerr.HTTPStatusCodeError(fmt.Errorf("descriptor is not set"), http.StatusBadRequest)
	}

	errs := []error{}

	if err := ValidateApplicationID(d.ApplicationID); err != nil {
		errs = append(errs, err)
	}

	if d.Namespace != "" && !descregexp.IsApplicationID(d.Namespace) {
		errs = append(errs, fmt.Errorf("%w: namespace %q", ErrInvalidApplicationID, d.Namespace))
	}

	errs = append(errs, validatePlatformVersions(d)...)

	if d.VersionCode < 1 || d.VersionCode > MaxVersionCode {
		errs = append(errs, fmt.Errorf("%w: %d is not in [1, %d]", ErrInvalidVersionCode, d.VersionCode, MaxVersionCode))
	}

	errs = append(errs, validateSigning(d)...)

	return descerr.HTTPStatusCodeError(errors.Join(errs...), http.StatusBadRequest)
}

// ValidateApplicationID checks that id is a reverse-domain identifier of at
// least two segments separated by '.', each a valid identifier.
func ValidateApplicationID(id string) error {
	if descregexp.IsApplicationID(id) {
		return nil
	}

	for i, segment := range strings.Split(id, ".") {
		if !descregexp.IsApplicationIDSegment(segment) {
			return fmt.Errorf("%w: %q: segment %d %q is not a valid identifier", ErrInvalidApplicationID, id, i, segment)
		}
	}

	return fmt.Errorf("%w: %q: at least two segments are required", ErrInvalidApplicationID, id)
}

func validatePlatformVersions(d *Descriptor) []error {
	errs := []error{}

	if d.MinSDKVersion < 1 {
		errs = append(errs, fmt.Errorf("%w: minSdkVersion %d must be positive", ErrPlatformVersionOrder, d.MinSDKVersion))
	}

	if d.TargetSDKVersion < 1 {
		errs = append(errs, fmt.Errorf("%w: targetSdkVersion %d must be positive", ErrPlatformVersionOrder, d.TargetSDKVersion))
	}

	if d.MinSDKVersion > d.TargetSDKVersion {
		errs = append(errs, fmt.Errorf("%w: minSdkVersion %d exceeds targetSdkVersion %d", ErrPlatformVersionOrder, d.MinSDKVersion, d.TargetSDKVersion))
	}

	if d.CompileSDKVersion != 0 && d.CompileSDKVersion < d.TargetSDKVersion {
		errs = append(errs, fmt.Errorf("%w: compileSdkVersion %d is less than targetSdkVersion %d", ErrPlatformVersionOrder, d.CompileSDKVersion, d.TargetSDKVersion))
	}

	return errs
}

func validateSigning(d *Descriptor) []error {
	errs := []error{}

	for _, name := range slices.Sorted(maps.Keys(d.SigningConfigs)) {
		sc := d.SigningConfigs[name]

		if sc.KeyAlias == "" {
			errs = append(errs, fmt.Errorf("%w: %s: keyAlias is required", ErrInvalidSigningConfig, name))
		}

		if err := ValidateKeyStore(d.Path(sc.StoreFile)); err != nil {
			errs = append(errs, fmt.Errorf("signing config %s: %w", name, err))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(d.BuildTypes)) {
		if d.BuildTypes[name].SigningConfig == "" {
			continue
		}

		if _, err := d.SigningIdentity(name); err != nil {
			errs = append(errs, err)
		}
	}

	if bt, ok := d.BuildTypes[BuildTypeRelease]; ok && bt.SigningConfig == BuildTypeDebug {
		if _, ok := d.SigningConfigs[BuildTypeRelease]; ok {
			errs = append(errs, fmt.Errorf("%w: signing config %s is declared but unused", ErrReleaseSignedWithDebug, BuildTypeRelease))
		}
	}

	return errs
}

// ValidateKeyStore checks that the key store at name exists, is a readable
// regular file and begins with a JKS, JCEKS or PKCS#12 header.
func ValidateKeyStore(name string) error {
	if name == "" {
		return fmt.Errorf("%w: storeFile is required", ErrKeyStoreNotFound)
	}

	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrKeyStoreNotFound, name)
	} else if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrKeyStoreUnreadable, name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrKeyStoreUnreadable, name, err)
	} else if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrKeyStoreUnreadable, name)
	}

	magic := make([]byte, len(magicJKS))
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrKeyStoreCorrupt, name, err)
	}

	if !bytes.Equal(magic, magicJKS) && !bytes.Equal(magic, magicJCEKS) && !bytes.HasPrefix(magic, magicPKCS12) {
		return fmt.Errorf("%w: %s has unrecognized header %x", ErrKeyStoreCorrupt, name, magic)
	}

	return nil
}
