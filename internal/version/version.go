// Package version carries build metadata
package version

import "fmt"

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/Abaw1984/azload-sub000/internal/version.Version=0.3.0"
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// Code is the load standard the calculators implement
	Code = "ASCE 7-16"
)

// String is the one-line version banner
func String() string {
	return fmt.Sprintf("azload v%s (%s, commit %s, built %s)", Version, Code, GitCommit, BuildTime)
}
