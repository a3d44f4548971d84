package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/harrison/specdox/internal/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DirName is the per-project configuration directory.
const DirName = ".specdox"

// Config represents specdox configuration options
type Config struct {
	// Color selects colored specs: auto, always or never
	Color string `yaml:"color"`

	// Examples includes runnable examples in the specification
	Examples bool `yaml:"examples"`

	// DocComments lets doc comments on test functions replace generated names
	DocComments bool `yaml:"doc_comments"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// JournalDir is where --journal stores event streams
	JournalDir string `yaml:"journal_dir"`

	// GoCommand is the go binary used for `go test` and `go list`
	GoCommand string `yaml:"go_command"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Color:       ColorAuto,
		Examples:    false,
		DocComments: true,
		LogLevel:    "warn",
		JournalDir:  filepath.Join(DirName, "journal"),
		GoCommand:   "go",
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Booleans are only taken when the key is present, so `false` can
	// override a true default.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Color != "" {
		cfg.Color = fileCfg.Color
	}
	if _, exists := rawMap["examples"]; exists {
		cfg.Examples = fileCfg.Examples
	}
	if _, exists := rawMap["doc_comments"]; exists {
		cfg.DocComments = fileCfg.DocComments
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.JournalDir != "" {
		cfg.JournalDir = fileCfg.JournalDir
	}
	if fileCfg.GoCommand != "" {
		cfg.GoCommand = fileCfg.GoCommand
	}

	return cfg, nil
}

// LoadConfigFromDir loads .specdox/config.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DirName, "config.yaml"))
}

// MergeWithFlags lets non-nil flag values override configuration values
func (c *Config) MergeWithFlags(colorMode *string, examples *bool, logLevel *string, journalDir *string) {
	if colorMode != nil {
		c.Color = *colorMode
	}
	if examples != nil {
		c.Examples = *examples
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if journalDir != nil {
		c.JournalDir = *journalDir
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color %q, must be one of: auto, always, never", ErrInvalidConfig, c.Color)
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: log_level %q, must be one of: trace, debug, info, warn, error", ErrInvalidConfig, c.LogLevel)
	}

	if c.GoCommand == "" {
		return fmt.Errorf("%w: go_command cannot be empty", ErrInvalidConfig)
	}
	if c.JournalDir == "" {
		return fmt.Errorf("%w: journal_dir cannot be empty", ErrInvalidConfig)
	}

	return nil
}

// ColorEnabled resolves the color mode for a writer with file descriptor fd.
// auto means a terminal without NO_COLOR.
func (c *Config) ColorEnabled(fd uintptr) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
