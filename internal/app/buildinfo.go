package app

// Build metadata stamped through -ldflags by the release pipeline.
// The defaults apply to local builds and tests.
var (
	// BuildVersion is the semantic version of the binary.
	BuildVersion = "0.0.0-dev"
	// BuildCommit is the VCS commit the binary was built from.
	BuildCommit = "unknown"
	// BuildDate is the ISO-8601 build timestamp.
	BuildDate = "unknown"
)
