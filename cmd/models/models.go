package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meshvault/meshvault/internal/config"
	"github.com/meshvault/meshvault/internal/store"
)

var libraryDir string

// ModelsCmd lists the contents of the library
var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List imported models",
	Long:  `List every model in the library with its size, triangle count and import time.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listModels(); err != nil {
			fmt.Printf("Error listing models: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	ModelsCmd.Flags().StringVarP(&libraryDir, "library", "l", "", "Library directory")
}

func listModels() error {
	if err := config.SetupLibrary(libraryDir); err != nil {
		return err
	}

	st, err := store.Open(config.GetDbPath())
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListModels()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No models imported yet")
		return nil
	}

	fmt.Printf("%-28s %-10s %-12s %-8s %-20s %s\n", "NAME", "SIZE", "TRIANGLES", "THUMB", "IMPORTED", "PATH")
	fmt.Println(strings.Repeat("-", 110))

	for _, rec := range records {
		thumb := "-"
		if rec.ThumbnailPath != "" {
			thumb = "yes"
		}
		fmt.Printf("%-28s %-10s %-12s %-8s %-20s %s\n",
			truncate(rec.Name, 28),
			humanize.Bytes(uint64(rec.FileSize)),
			humanize.Comma(int64(rec.TriangleCount)),
			thumb,
			rec.ImportedAt,
			rec.FilePath,
		)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
