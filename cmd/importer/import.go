package importer

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/meshvault/meshvault/internal/batch"
	"github.com/meshvault/meshvault/internal/config"
	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/store"
	"github.com/meshvault/meshvault/internal/utils/logger"
)

var (
	libraryDir    string
	precisionFlag string
	loadWorkers   int
	procWorkers   int
)

// ImportCmd imports one or more mesh files into the library
var ImportCmd = &cobra.Command{
	Use:   "import <file.stl> [file.stl ...]",
	Short: "Import mesh files into the library",
	Long: `Import decodes each file, persists its measurements and renders a
thumbnail. Files already in the library are skipped unless --force is set.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(args); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	ImportCmd.Flags().StringVarP(&libraryDir, "library", "l", "", "Library directory")
	ImportCmd.Flags().StringVarP(&precisionFlag, "precision", "p", "", "Vertex precision: native or quantized")
	ImportCmd.Flags().IntVar(&loadWorkers, "load-workers", 0, "Concurrent file loads")
	ImportCmd.Flags().IntVar(&procWorkers, "processing-workers", 0, "Concurrent processing tasks")
	ImportCmd.Flags().BoolVarP(&config.ForceReimport, "force", "f", false, "Re-import files already in the library")
	ImportCmd.Flags().IntVar(&config.ThumbnailSize, "thumb-size", config.ThumbnailSize, "Thumbnail edge length in pixels")
}

func runImport(args []string) error {
	if err := config.SetupLibrary(libraryDir); err != nil {
		return err
	}

	st, err := store.Open(config.GetDbPath())
	if err != nil {
		return err
	}
	defer st.Close()

	if precisionFlag == "" {
		precisionFlag = config.DefaultPrecision
	}
	precision, err := mesh.ParsePrecision(precisionFlag)
	if err != nil {
		return err
	}

	paths, err := resolvePaths(st, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("Nothing to import")
		return nil
	}

	coord, err := batch.NewCoordinator(st, coordinatorConfig())
	if err != nil {
		return err
	}
	defer coord.Stop()

	if err := coord.StartBatch(paths, precision); err != nil {
		return err
	}

	// First Ctrl-C cancels the batch gracefully, a second one bails out.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		logger.Warn("Cancelling import, in-flight files will finish")
		coord.Cancel()
		<-sigChan
		os.Exit(1)
	}()

	return drainBatch(coord, len(paths))
}

// resolvePaths normalizes the arguments and drops already-imported
// files unless --force was given.
func resolvePaths(st store.Store, args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", arg, err)
		}

		if !config.ForceReimport {
			existing, err := st.FindModelByPath(abs)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				logger.Info("Skipping %s: already imported as %s", abs, existing.Name)
				continue
			}
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

// drainBatch renders the notification stream as a progress bar until
// the final summary arrives.
func drainBatch(coord *batch.Coordinator, total int) error {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Importing %d files", total)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
	bar.RenderBlank()

	for notification := range coord.Notifications() {
		switch ev := notification.(type) {
		case batch.FileProgress:
			// Per-file stage detail only reads well for a single file.
			if total == 1 {
				bar.Describe(ev.Message)
			}
		case batch.BatchProgress:
			bar.Set(int(ev.Percent))
			if total > 1 {
				bar.Describe(ev.Message)
			}
		case batch.BatchFinished:
			bar.Finish()
			if ev.Failed > 0 {
				fmt.Printf("Imported %d of %d files (%d failed)\n", ev.Total-ev.Failed, ev.Total, ev.Failed)
			} else {
				fmt.Printf("Imported %d files\n", ev.Total)
			}
			return nil
		}
	}
	return fmt.Errorf("notification stream closed before the batch finished")
}

func coordinatorConfig() batch.Config {
	cfg := batch.Config{
		LoadWorkers:         config.MaxConcurrentLoads,
		LoadQueueSize:       config.LoadQueueSize,
		ProcessingWorkers:   config.MaxConcurrentProcessing,
		ProcessingQueueSize: config.ProcessingQueueSize,
		ProgressThrottle:    time.Duration(config.ProgressThrottleMs) * time.Millisecond,
		Throughput: progress.Throughput{
			IoBytesPerSecond:   config.IoBytesPerSecond,
			TrianglesPerSecond: config.TrianglesPerSecond,
		},
		ThumbnailDir:  config.GetThumbnailsPath(),
		ThumbnailSize: config.ThumbnailSize,
	}
	if loadWorkers > 0 {
		cfg.LoadWorkers = loadWorkers
	}
	if procWorkers > 0 {
		cfg.ProcessingWorkers = procWorkers
	}
	return cfg
}
