package main

import (
	"github.com/meshvault/meshvault/cmd"
)

// Version information set during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Set version information in cmd package
	cmd.SetVersion(Version, BuildTime, GitCommit)

	// Subcommands own their signal handling: import and watch cancel
	// the running batch before exiting.
	cmd.Execute()
}
