package config

import (
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from start to the nearest directory holding a
// .specdox directory or a go.mod file. start itself is returned when
// neither is found.
func FindProjectRoot(start string) string {
	current, err := filepath.Abs(start)
	if err != nil {
		return start
	}

	for {
		// An explicit .specdox directory wins over go.mod
		if info, err := os.Stat(filepath.Join(current, DirName)); err == nil && info.IsDir() {
			return current
		}
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current
		}

		parent := filepath.Dir(current)
		if parent == current {
			return start
		}
		current = parent
	}
}
