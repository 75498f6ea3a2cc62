// Package conf loads and persists the application settings.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load policies for the table store (fail-open vs fail-closed reads).
const (
	LoadPolicyLenient = "lenient"
	LoadPolicyStrict  = "strict"
)

// Delete modes applied by the record service.
const (
	DeleteModeHard = "hard"
	DeleteModeSoft = "soft"
)

// LogConfig controls the per-service rotated log files.
type LogConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxsizemb"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAgeDays int    `yaml:"maxagedays"`
}

// MainSettings identifies the installation.
type MainSettings struct {
	Name string    `yaml:"name"` // installation name, used in logs and reports
	Log  LogConfig `yaml:"log"`
}

// DataSettings locates the flat-file tables and controls store policy.
type DataSettings struct {
	Dir         string            `yaml:"dir"`         // directory holding the entity CSV files
	EvidenceDir string            `yaml:"evidencedir"` // directory holding image evidence blobs
	LoadPolicy  string            `yaml:"loadpolicy"`  // lenient: load errors yield an empty table; strict: they propagate
	DeleteModes map[string]string `yaml:"deletemodes"` // per-entity delete mode (hard|soft)
}

// ValidationSettings carries the tunable validator bounds.
type ValidationSettings struct {
	WeightMinKg       float64  `yaml:"weightminkg"`
	WeightMaxKg       float64  `yaml:"weightmaxkg"`
	MaxUploadSizeMB   int64    `yaml:"maxuploadsizemb"`
	AllowedExtensions []string `yaml:"allowedextensions"`
}

// BackupConfig controls the pre-write table snapshots.
type BackupConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`        // backup directory
	Timestamped bool   `yaml:"timestamped"` // accumulate timestamped copies instead of one fixed file
	MaxBackups  int    `yaml:"maxbackups"`  // timestamped copies to retain per entity, 0 = unlimited
}

// WebServerSettings configures the JSON API server.
type WebServerSettings struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
}

// Settings is the root configuration object.
type Settings struct {
	Debug      bool               `yaml:"debug"`
	Main       MainSettings       `yaml:"main"`
	Data       DataSettings       `yaml:"data"`
	Validation ValidationSettings `yaml:"validation"`
	Backup     BackupConfig       `yaml:"backup"`
	WebServer  WebServerSettings  `yaml:"webserver"`
}

// DeleteMode returns the configured delete mode for an entity, defaulting
// to soft when unset.
func (s *Settings) DeleteMode(entity string) string {
	if mode, ok := s.Data.DeleteModes[entity]; ok && mode != "" {
		return mode
	}
	return DeleteModeSoft
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (s *Settings) MaxUploadBytes() int64 {
	return s.Validation.MaxUploadSizeMB * 1024 * 1024
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and returns the settings. When
// configPath is empty the default search paths are used; when no config
// file exists anywhere, one is created with defaults.
func Load(configPath string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configPath); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		for _, path := range defaultConfigPaths() {
			viper.AddConfigPath(path)
		}
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig()
		}
		if configPath != "" && os.IsNotExist(err) {
			return fmt.Errorf("config file %s does not exist: %w", configPath, err)
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}
	return nil
}

// defaultConfigPaths lists the directories searched for config.yaml.
func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "residuos-go"))
	}
	return paths
}

// createDefaultConfig writes a default config file to the first search path.
func createDefaultConfig() error {
	configPath := filepath.Join(defaultConfigPaths()[0], "config.yaml")

	yamlData, err := yaml.Marshal(defaultSettings())
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, yamlData, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// GetSettings returns the current settings instance.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath with a temp-file-then-rename
// so a concurrent reader never observes a partial config file.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
