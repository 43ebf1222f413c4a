package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshvault/meshvault/cmd/importer"
	"github.com/meshvault/meshvault/cmd/inspect"
	"github.com/meshvault/meshvault/cmd/models"
	"github.com/meshvault/meshvault/cmd/watch"
	"github.com/meshvault/meshvault/internal/config"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	rootCmd = &cobra.Command{
		Use:   "meshvault",
		Short: "A library manager for 3D mesh files",
		Long: `MeshVault imports STL meshes into a local library: it decodes
each file, stores its measurements and renders a thumbnail preview.`,
		Version: version,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("MeshVault %s\n", version)
			fmt.Printf("Build time: %s\n", buildTime)
			fmt.Printf("Git commit: %s\n", gitCommit)
		},
	}
)

// SetVersion sets the version information
func SetVersion(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
	rootCmd.Version = v
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(importer.ImportCmd)
	rootCmd.AddCommand(inspect.InspectCmd)
	rootCmd.AddCommand(models.ModelsCmd)
	rootCmd.AddCommand(watch.WatchCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	config.LoadConfig()
}
