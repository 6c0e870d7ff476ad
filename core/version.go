package core

// Firmware version, reported by the version response frame.
const (
	VersionMajor = 2
	VersionMinor = 0
	VersionPatch = 1
)
