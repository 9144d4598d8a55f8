package android

const (
	AssetLinksPath = "/.well-known/assetlinks.json"

	RelationHandleAllURLs = "delegate_permission/common.handle_all_urls"
	NamespaceAndroidApp   = "android_app"
)

// AssetLink is a Digital Asset Links statement.
type AssetLink struct {
	Relation []string `json:"relation,omitempty"`
	Target   Target   `json:"target,omitempty"`
}

type Target struct {
	Namespace              string   `json:"namespace,omitempty"`
	PackageName            string   `json:"package_name,omitempty"`
	SHA256CertFingerprints []string `json:"sha256_cert_fingerprints,omitempty"`
}

// NewAssetLink returns the statement that lets the app with the given
// package name, signed by one of fingerprints, handle all of a site's URLs.
func NewAssetLink(packageName string, fingerprints ...string) AssetLink {
	return AssetLink{
		Relation: []string{RelationHandleAllURLs},
		Target: Target{
			Namespace:              NamespaceAndroidApp,
			PackageName:            packageName,
			SHA256CertFingerprints: fingerprints,
		},
	}
}
