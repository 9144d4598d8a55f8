package android

import "encoding/xml"

const (
	AndroidManifestName = "AndroidManifest.xml"

	NamespaceAndroid = "http://schemas.android.com/apk/res/android"
)

// Manifest is the part of an AndroidManifest.xml
// that a Descriptor can be compared against.
type Manifest struct {
	XMLName xml.Name         `xml:"manifest"`
	UsesSDK *ManifestUsesSDK `xml:"uses-sdk"`
	Attrs   []xml.Attr       `xml:",any,attr"`
}

func attr(attrs []xml.Attr, space, local string) string {
	for _, attr := range attrs {
		if attr.Name.Local == local && (space == "" || attr.Name.Space == space) {
			return attr.Value
		}
	}

	return ""
}

func (m *Manifest) Package() string {
	return attr(m.Attrs, "", "package")
}

// VersionCode returns android:versionCode. `apktool decode` usually
// moves it out of the manifest and into apktool.yml.
func (m *Manifest) VersionCode() string {
	return attr(m.Attrs, NamespaceAndroid, "versionCode")
}

func (m *Manifest) VersionName() string {
	return attr(m.Attrs, NamespaceAndroid, "versionName")
}

type ManifestUsesSDK struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (u *ManifestUsesSDK) MinSDKVersion() string {
	return attr(u.Attrs, NamespaceAndroid, "minSdkVersion")
}

func (u *ManifestUsesSDK) TargetSDKVersion() string {
	return attr(u.Attrs, NamespaceAndroid, "targetSdkVersion")
}
