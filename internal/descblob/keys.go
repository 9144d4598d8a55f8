package descblob

import "path"

func ReleasesKey(channel string) string {
	return path.Join(channel, "releases.json")
}
