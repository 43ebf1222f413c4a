package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshvault/meshvault/internal/batch"
	"github.com/meshvault/meshvault/internal/config"
	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/store"
	"github.com/meshvault/meshvault/internal/utils/logger"
	"github.com/meshvault/meshvault/internal/watcher"
)

var (
	libraryDir    string
	precisionFlag string
	debounceMs    int
)

// WatchCmd imports new STL files as they appear in the given directories
var WatchCmd = &cobra.Command{
	Use:   "watch <dir> [dir ...]",
	Short: "Watch directories and import new mesh files",
	Long: `Watch observes the given directories and imports every STL file that
is created or rewritten there, once its writer goes quiet.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(args); err != nil {
			fmt.Printf("Watch failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	WatchCmd.Flags().StringVarP(&libraryDir, "library", "l", "", "Library directory")
	WatchCmd.Flags().StringVarP(&precisionFlag, "precision", "p", "", "Vertex precision: native or quantized")
	WatchCmd.Flags().IntVar(&debounceMs, "debounce", 500, "Quiet time in ms before importing a changed file")
	WatchCmd.Flags().BoolVarP(&config.ForceReimport, "force", "f", false, "Re-import files already in the library")
}

func runWatch(dirs []string) error {
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

	coord, err := batch.NewCoordinator(st, batch.Config{
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
	})
	if err != nil {
		return err
	}
	defer coord.Stop()

	pending := make(chan string, 256)
	dw, err := watcher.NewDirWatcher(time.Duration(debounceMs)*time.Millisecond, []string{".stl"}, func(path string) {
		select {
		case pending <- path:
		default:
			logger.Warn("Import queue full, dropping %s", path)
		}
	})
	if err != nil {
		return err
	}
	defer dw.Close()

	for _, dir := range dirs {
		if err := dw.Watch(dir); err != nil {
			return err
		}
	}
	dw.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Waiting for mesh files, Ctrl-C to stop")
	for {
		select {
		case path := <-pending:
			importOne(coord, st, path, precision)
		case <-sigChan:
			coord.Cancel()
			logger.Info("Watch stopped")
			return nil
		}
	}
}

// importOne runs a single-file batch to completion. Files arriving
// meanwhile wait in the pending queue; a failed import only logs.
func importOne(coord *batch.Coordinator, st store.Store, path string, precision mesh.Precision) {
	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Error("Could not resolve %s: %v", path, err)
		return
	}

	if !config.ForceReimport {
		existing, err := st.FindModelByPath(abs)
		if err != nil {
			logger.Error("Lookup failed for %s: %v", abs, err)
			return
		}
		if existing != nil {
			logger.Debug("Skipping %s: already imported", abs)
			return
		}
	}

	if err := coord.StartBatch([]string{abs}, precision); err != nil {
		logger.Error("Could not start import for %s: %v", abs, err)
		return
	}
	for notification := range coord.Notifications() {
		if _, done := notification.(batch.BatchFinished); done {
			return
		}
	}
}
