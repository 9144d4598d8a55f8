package descregexp

func IsApplicationID(name string) bool {
	return ApplicationID.MatchString(name)
}

func IsApplicationIDSegment(name string) bool {
	return ApplicationIDSegment.MatchString(name)
}

func IsChannel(name string) bool {
	return Channel.MatchString(name)
}

func IsUUID(name string) bool {
	return UUID.MatchString(name)
}

func IsAPK(name string) bool {
	return APK.MatchString(name)
}
