package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DirName, "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Color != ColorAuto {
		t.Errorf("Color = %q, want %q", cfg.Color, ColorAuto)
	}
	if cfg.Examples {
		t.Errorf("Examples = %v, want false", cfg.Examples)
	}
	if !cfg.DocComments {
		t.Errorf("DocComments = %v, want true", cfg.DocComments)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.JournalDir != filepath.Join(".specdox", "journal") {
		t.Errorf("JournalDir = %q", cfg.JournalDir)
	}
	if cfg.GoCommand != "go" {
		t.Errorf("GoCommand = %q, want %q", cfg.GoCommand, "go")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `color: always
examples: true
doc_comments: false
log_level: debug
journal_dir: /tmp/journal
go_command: go1.25
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Color != ColorAlways {
		t.Errorf("Color = %q, want %q", cfg.Color, ColorAlways)
	}
	if !cfg.Examples {
		t.Errorf("Examples = false, want true")
	}
	if cfg.DocComments {
		t.Errorf("DocComments = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.JournalDir != "/tmp/journal" {
		t.Errorf("JournalDir = %q, want %q", cfg.JournalDir, "/tmp/journal")
	}
	if cfg.GoCommand != "go1.25" {
		t.Errorf("GoCommand = %q, want %q", cfg.GoCommand, "go1.25")
	}
}

// TestLoadConfigPartialFile keeps defaults for absent keys
func TestLoadConfigPartialFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "examples: true\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Examples {
		t.Errorf("Examples = false, want true")
	}
	if !cfg.DocComments {
		t.Errorf("DocComments should keep its default")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color = %q, want default %q", cfg.Color, ColorAuto)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

// TestLoadConfigMalformed tests that invalid YAML is reported
func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "color: [always\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() should fail on malformed YAML")
	}
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log_level: error\n")

	cfg, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	mode := ColorNever
	examples := true
	level := "trace"

	cfg.MergeWithFlags(&mode, &examples, &level, nil)

	if cfg.Color != ColorNever {
		t.Errorf("Color = %q, want %q", cfg.Color, ColorNever)
	}
	if !cfg.Examples {
		t.Errorf("Examples = false, want true")
	}
	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "trace")
	}
	if cfg.JournalDir != DefaultConfig().JournalDir {
		t.Errorf("nil flag should leave JournalDir alone, got %q", cfg.JournalDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad color", func(c *Config) { c.Color = "sometimes" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty go command", func(c *Config) { c.GoCommand = "" }},
		{"empty journal dir", func(c *Config) { c.JournalDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateAcceptsLoggerLevels(t *testing.T) {
	for _, level := range []string{"trace", "debug", "INFO", "warn", "error"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with log_level %q = %v, want nil", level, err)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg := DefaultConfig()

	cfg.Color = ColorAlways
	if !cfg.ColorEnabled(f.Fd()) {
		t.Error("always should enable color")
	}

	cfg.Color = ColorNever
	if cfg.ColorEnabled(f.Fd()) {
		t.Error("never should disable color")
	}

	cfg.Color = ColorAuto
	if cfg.ColorEnabled(f.Fd()) {
		t.Error("auto should disable color for a regular file")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "internal", "pkg")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := FindProjectRoot(nested)
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}

	// .specdox below the module root takes precedence
	writeConfig(t, filepath.Join(root, "internal"), "color: never\n")
	got, _ = filepath.EvalSymlinks(FindProjectRoot(nested))
	if got != filepath.Join(want, "internal") {
		t.Errorf("FindProjectRoot() = %q, want the .specdox directory", got)
	}
}
