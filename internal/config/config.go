package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meshvault/meshvault/internal/utils/logger"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = "meshvault"
	ConfigFileName = "config.yaml"
)

func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigDirName), nil
}

// GetDefaultLibraryDir returns the library location used when no
// --library flag or config entry overrides it
func GetDefaultLibraryDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "library"), nil
}

// LoadConfig loads the config from the config file
// If the config file does not exist, it creates a default config and saves it to the config file
func LoadConfig() {
	configPath, err := GetConfigDir()
	if err != nil {
		logger.Error("Error getting config dir: %v", err)
		return
	}
	configFile := filepath.Join(configPath, ConfigFileName)

	if err := os.MkdirAll(configPath, 0755); err != nil {
		logger.Error("Error creating config path: %v", err)
		return
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		out, err := yaml.Marshal(DefaultConfig)
		if err != nil {
			logger.Error("Error marshaling default config: %v", err)
			return
		}

		if err := os.WriteFile(configFile, out, 0644); err != nil {
			logger.Error("Error writing default config file: %v", err)
			return
		}
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		logger.Error("Error reading config: %v", err)
		return
	}

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		logger.Error("Error unmarshalling config: %v", err)
		return
	}

	applyConfig()
}

// SaveConfig saves the config to the config file
func SaveConfig() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	out, err := yaml.Marshal(GlobalConfig)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, out, 0644)
}

// SetupLibrary resolves and creates the library directory layout.
// A directory passed on the command line wins over the config file.
func SetupLibrary(flagDir string) error {
	switch {
	case flagDir != "":
		LibraryDir = flagDir
	case GlobalConfig.LibraryDir != "":
		LibraryDir = GlobalConfig.LibraryDir
	default:
		defaultDir, err := GetDefaultLibraryDir()
		if err != nil {
			return fmt.Errorf("failed to resolve default library dir: %w", err)
		}
		LibraryDir = defaultDir
	}

	if err := os.MkdirAll(LibraryDir, 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	if err := os.MkdirAll(GetThumbnailsPath(), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnails directory: %w", err)
	}
	return nil
}

// applyConfig copies non-zero config file entries over the defaults
func applyConfig() {
	if GlobalConfig.MaxConcurrentLoads > 0 {
		MaxConcurrentLoads = GlobalConfig.MaxConcurrentLoads
	}
	if GlobalConfig.MaxConcurrentProcessing > 0 {
		MaxConcurrentProcessing = GlobalConfig.MaxConcurrentProcessing
	}
	if GlobalConfig.ProgressThrottleMs > 0 {
		ProgressThrottleMs = GlobalConfig.ProgressThrottleMs
	}
	if GlobalConfig.IoBytesPerSecond > 0 {
		IoBytesPerSecond = GlobalConfig.IoBytesPerSecond
	}
	if GlobalConfig.TrianglesPerSecond > 0 {
		TrianglesPerSecond = GlobalConfig.TrianglesPerSecond
	}
	if GlobalConfig.ThumbnailSize > 0 {
		ThumbnailSize = GlobalConfig.ThumbnailSize
	}
	if GlobalConfig.DefaultPrecision != "" {
		DefaultPrecision = GlobalConfig.DefaultPrecision
	}
}
