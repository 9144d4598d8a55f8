package descregexp

import "regexp"

var (
	ApplicationID        = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	ApplicationIDSegment = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	Channel              = regexp.MustCompile("^[a-zA-Z0-9-_]{1,32}$")
	UUID                 = regexp.MustCompile("^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$")

	EnvReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

	APK = regexp.MustCompile(`(?i)^[\w/.-]+\.apk$`)
)
