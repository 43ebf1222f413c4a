package config

import (
	"path/filepath"
	"runtime"
)

var (
	LibraryDir   string // root directory holding the db and thumbnails
	GlobalConfig Config

	ForceReimport = false // re-import paths already present in the store

	// Load worker pool configuration (file read + decode, I/O heavy)
	MaxConcurrentLoads = 4
	LoadQueueSize      = 256

	// Processing worker pool configuration (persist + thumbnail)
	MaxConcurrentProcessing = runtime.NumCPU()
	ProcessingQueueSize     = 256

	// Progress reporting
	ProgressThrottleMs = 100 // min interval between intermediate updates per file

	// Throughput constants used only for human-facing ETA text
	IoBytesPerSecond   = 250.0 * 1024 * 1024
	TrianglesPerSecond = 4_000_000.0

	// Thumbnail rendering
	ThumbnailSize = 256

	// Default vertex precision mode ("native" or "quantized")
	DefaultPrecision = "native"
)

var DefaultConfig = Config{}

type Config struct {
	LibraryDir              string  `mapstructure:"library_dir" yaml:"library_dir"`
	MaxConcurrentLoads      int     `mapstructure:"max_concurrent_loads" yaml:"max_concurrent_loads"`
	MaxConcurrentProcessing int     `mapstructure:"max_concurrent_processing" yaml:"max_concurrent_processing"`
	ProgressThrottleMs      int     `mapstructure:"progress_throttle_ms" yaml:"progress_throttle_ms"`
	IoBytesPerSecond        float64 `mapstructure:"io_bytes_per_second" yaml:"io_bytes_per_second"`
	TrianglesPerSecond      float64 `mapstructure:"triangles_per_second" yaml:"triangles_per_second"`
	ThumbnailSize           int     `mapstructure:"thumbnail_size" yaml:"thumbnail_size"`
	DefaultPrecision        string  `mapstructure:"default_precision" yaml:"default_precision"`
}

// GetDbPath returns the sqlite database file for the current library
func GetDbPath() string {
	if LibraryDir != "" {
		return filepath.Join(LibraryDir, "library.db")
	}
	return ""
}

// GetThumbnailsPath returns the thumbnail image directory
func GetThumbnailsPath() string {
	if LibraryDir != "" {
		return filepath.Join(LibraryDir, "thumbnails")
	}
	return ""
}
