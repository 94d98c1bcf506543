// Package version holds build identification stamped in via -ldflags.
package version

var (
	// Version is the planner release version.
	Version = "dev"
	// GitSHA is the git commit SHA of the build.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
