package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Metadata MetadataConfig `json:"metadata" mapstructure:"metadata"`
	Display  DisplayConfig  `json:"display" mapstructure:"display"`
	Log      LogConfig      `json:"log" mapstructure:"log"`
}

// MetadataConfig controls where comments are looked up
type MetadataConfig struct {
	BufferSize      int    `json:"bufferSize" mapstructure:"bufferSize"`           // Comment buffer capacity in bytes
	Descriptions    bool   `json:"descriptions" mapstructure:"descriptions"`       // Fall back to descript.ion files
	DescriptionFile string `json:"descriptionFile" mapstructure:"descriptionFile"` // Name of the description file
	Xattr           bool   `json:"xattr" mapstructure:"xattr"`                     // Fall back to extended attributes
	XattrName       string `json:"xattrName" mapstructure:"xattrName"`
}

// DisplayConfig represents listing output settings
type DisplayConfig struct {
	Color            string `json:"color" mapstructure:"color"` // "auto", "always", "never"
	ShowHidden       bool   `json:"showHidden" mapstructure:"showHidden"`
	DirectoriesFirst bool   `json:"directoriesFirst" mapstructure:"directoriesFirst"`
	CompactSizes     bool   `json:"compactSizes" mapstructure:"compactSizes"`   // 1.2K instead of 1,234
	ElideComments    bool   `json:"elideComments" mapstructure:"elideComments"` // Cut comments at terminal width
	HideLinks        bool   `json:"hideLinks" mapstructure:"hideLinks"`         // Omit "@target" after symlinks
	TimeFormat       string `json:"timeFormat" mapstructure:"timeFormat"`       // Go layout of the mtime column
}

// LogConfig represents logging settings
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // logrus level name
	Format string `json:"format" mapstructure:"format"` // "text", "json"
}

// Manager provides configuration management functionality
type Manager struct {
	configPath string
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return NewManagerWithPath(getConfigPath())
}

// NewManagerWithPath creates a configuration manager for an explicit file
func NewManagerWithPath(path string) *Manager {
	m := &Manager{configPath: path}
	m.viper = viper.New()
	m.viper.SetConfigFile(m.configPath)
	m.viper.SetConfigType("json")
	m.viper.SetEnvPrefix(constants.EnvPrefix)
	m.viper.AutomaticEnv()
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(m.viper)
	return m
}

// Path returns the configuration file location
func (m *Manager) Path() string {
	return m.configPath
}

// Load loads configuration from file and environment, merged with defaults
func (m *Manager) Load() (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError("load", "error parsing config file", err)
		}
		logrus.WithField("path", m.configPath).Debug("Config file not found, using defaults")
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigError("load", "error decoding config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Set changes a single setting of the configuration file and writes the
// result back. Keys use the dotted form of the file, e.g.
// "display.compactSizes"; values are converted to the setting's type.
// The current file does not have to be valid, which allows repairing it.
func (m *Manager) Set(key, value string) (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError("set", "error parsing config file", err)
		}
	}

	key = strings.ToLower(key)
	if !slices.Contains(m.viper.AllKeys(), key) {
		return nil, apperrors.NewConfigError("set", fmt.Sprintf("unknown setting %q", key), nil)
	}
	m.viper.Set(key, value)

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigError("set", fmt.Sprintf("invalid value %q for %s", value, key), err)
	}
	if err := m.Save(&config); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"path": m.configPath, "key": key}).Debug("Setting saved")
	return &config, nil
}

// Save saves configuration to file
func (m *Manager) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// Create the config directory if it doesn't exist
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return apperrors.NewConfigError("save", "error creating config directory", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return apperrors.NewConfigError("save", "error marshaling config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return apperrors.NewConfigError("save", "error writing config file", err)
	}

	return nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	size := c.Metadata.BufferSize
	if size < constants.MinBufferSize || size > constants.MaxBufferSize || size%2 != 0 {
		return apperrors.NewConfigError("validate",
			fmt.Sprintf("metadata.bufferSize must be an even number between %d and %d, got %d",
				constants.MinBufferSize, constants.MaxBufferSize, size), nil)
	}

	switch c.Display.Color {
	case constants.ColorAuto, constants.ColorAlways, constants.ColorNever:
	default:
		return apperrors.NewConfigError("validate",
			fmt.Sprintf("display.color must be auto, always or never, got %q", c.Display.Color), nil)
	}

	if strings.TrimSpace(c.Display.TimeFormat) == "" {
		return apperrors.NewConfigError("validate", "display.timeFormat must not be empty", nil)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return apperrors.NewConfigError("validate", fmt.Sprintf("invalid log.level %q", c.Log.Level), err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return apperrors.NewConfigError("validate",
			fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format), nil)
	}
	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Metadata: MetadataConfig{
			BufferSize:      constants.DefaultBufferSize,
			Descriptions:    true,
			DescriptionFile: constants.DefaultDescriptionFile,
			Xattr:           true,
			XattrName:       constants.DefaultXattrName,
		},
		Display: DisplayConfig{
			Color:            constants.ColorAuto,
			ShowHidden:       constants.DefaultShowHidden,
			DirectoriesFirst: constants.DefaultDirectoriesFirst,
			CompactSizes:     true,
			ElideComments:    true,
			TimeFormat:       constants.DefaultTimeFormat,
		},
		Log: LogConfig{
			Level:  constants.DefaultLogLevel,
			Format: constants.DefaultLogFormat,
		},
	}
}

// setDefaults registers every default so file and environment values merge
// over them key by key.
func setDefaults(v *viper.Viper) {
	defaults := getDefaultConfig()

	v.SetDefault("metadata.bufferSize", defaults.Metadata.BufferSize)
	v.SetDefault("metadata.descriptions", defaults.Metadata.Descriptions)
	v.SetDefault("metadata.descriptionFile", defaults.Metadata.DescriptionFile)
	v.SetDefault("metadata.xattr", defaults.Metadata.Xattr)
	v.SetDefault("metadata.xattrName", defaults.Metadata.XattrName)

	v.SetDefault("display.color", defaults.Display.Color)
	v.SetDefault("display.showHidden", defaults.Display.ShowHidden)
	v.SetDefault("display.directoriesFirst", defaults.Display.DirectoriesFirst)
	v.SetDefault("display.compactSizes", defaults.Display.CompactSizes)
	v.SetDefault("display.elideComments", defaults.Display.ElideComments)
	v.SetDefault("display.hideLinks", defaults.Display.HideLinks)
	v.SetDefault("display.timeFormat", defaults.Display.TimeFormat)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// getConfigPath returns the path to the configuration file following OS conventions
func getConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\lsmeta\config.json
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, constants.ApplicationName)

	case "darwin":
		// macOS: ~/Library/Application Support/lsmeta/config.json
		home, err := os.UserHomeDir()
		if err != nil {
			return constants.ConfigFileName
		}
		configDir = filepath.Join(home, "Library", "Application Support", constants.ApplicationName)

	default:
		// Linux/Unix: $XDG_CONFIG_HOME/lsmeta/config.json or ~/.config/lsmeta/config.json
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			xdgConfigHome = filepath.Join(home, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, constants.ApplicationName)
	}

	return filepath.Join(configDir, constants.ConfigFileName)
}
