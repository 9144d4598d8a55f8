package android

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/apktool"
)

var (
	ErrAPKMismatch = errors.New("apk does not match descriptor")
)

// APK is a decoded .apk. APKDecoder implements it.
type APK interface {
	Manifest(context.Context) (*Manifest, error)
	Metadata(context.Context) (*apktool.Metadata, error)
	SHA256CertFingerprints(context.Context) (string, error)
}

var (
	_ APK = &APKDecoder{}
)

// CompareAPK checks that the package, platform versions and version of
// a decoded .apk are those that d declares. Values are read from apktool's
// metadata and fall back to the manifest when apktool did not record them.
func CompareAPK(d *appdesc.Descriptor, manifest *Manifest, metadata *apktool.Metadata) error {
	errs := []error{}

	mismatch := func(field string, want, got any) {
		errs = append(errs, fmt.Errorf("%w: %s is %v, descriptor declares %v", ErrAPKMismatch, field, got, want))
	}

	if pkg := manifest.Package(); pkg != d.ApplicationID {
		mismatch("package", d.ApplicationID, pkg)
	}

	if minSDK, targetSDK, err := sdkVersions(manifest, metadata); err != nil {
		errs = append(errs, err)
	} else {
		if minSDK != d.MinSDKVersion {
			mismatch("minSdkVersion", d.MinSDKVersion, minSDK)
		}

		if targetSDK != d.TargetSDKVersion {
			mismatch("targetSdkVersion", d.TargetSDKVersion, targetSDK)
		}
	}

	if versionCode, versionName, err := versions(manifest, metadata); err != nil {
		errs = append(errs, err)
	} else {
		if versionCode != d.VersionCode {
			mismatch("versionCode", d.VersionCode, versionCode)
		}

		if d.VersionName != "" && versionName != d.VersionName {
			mismatch("versionName", d.VersionName, versionName)
		}
	}

	return errors.Join(errs...)
}

func sdkVersions(manifest *Manifest, metadata *apktool.Metadata) (int, int, error) {
	if metadata != nil && metadata.SDKInfo != nil {
		return metadata.SDKInfo.MinSDKVersion.Int(), metadata.SDKInfo.TargetSDKVersion.Int(), nil
	}

	if manifest.UsesSDK == nil || manifest.UsesSDK.MinSDKVersion() == "" {
		return 0, 0, fmt.Errorf("%w: neither %s sdkInfo nor %s uses-sdk declare platform versions", ErrAPKMismatch, apktool.MetadataName, AndroidManifestName)
	}

	minSDK, err := strconv.Atoi(manifest.UsesSDK.MinSDKVersion())
	if err != nil {
		return 0, 0, fmt.Errorf("%w: minSdkVersion: %w", ErrAPKMismatch, err)
	}

	// targetSdkVersion defaults to minSdkVersion.
	targetSDK := minSDK
	if s := manifest.UsesSDK.TargetSDKVersion(); s != "" {
		if targetSDK, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("%w: targetSdkVersion: %w", ErrAPKMismatch, err)
		}
	}

	return minSDK, targetSDK, nil
}

func versions(manifest *Manifest, metadata *apktool.Metadata) (int, string, error) {
	if metadata != nil && metadata.VersionInfo != nil {
		return metadata.VersionInfo.VersionCode.Int(), metadata.VersionInfo.VersionName, nil
	}

	if manifest.VersionCode() == "" {
		return 0, "", fmt.Errorf("%w: neither %s versionInfo nor %s declare versionCode", ErrAPKMismatch, apktool.MetadataName, AndroidManifestName)
	}

	versionCode, err := strconv.Atoi(manifest.VersionCode())
	if err != nil {
		return 0, "", fmt.Errorf("%w: versionCode: %w", ErrAPKMismatch, err)
	}

	return versionCode, manifest.VersionName(), nil
}

// VerifyAPK compares apk against d. If fingerprint is not empty, the
// certificate that signed apk must also have that SHA-256 fingerprint.
func VerifyAPK(ctx context.Context, apk APK, d *appdesc.Descriptor, fingerprint string) error {
	manifest, err := apk.Manifest(ctx)
	if err != nil {
		return err
	}

	metadata, err := apk.Metadata(ctx)
	if err != nil {
		return err
	}

	errs := []error{CompareAPK(d, manifest, metadata)}

	if fingerprint != "" {
		got, err := apk.SHA256CertFingerprints(ctx)
		if err != nil {
			return err
		}

		if !strings.EqualFold(got, fingerprint) {
			errs = append(errs, fmt.Errorf("%w: signed by %s, key store entry is %s", ErrAPKMismatch, got, fingerprint))
		}
	}

	return errors.Join(errs...)
}
