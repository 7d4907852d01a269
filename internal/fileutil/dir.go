package fileutil

import (
	"fmt"
	"os"
)

// EnsureDir creates path and its parents with mode 0755. An existing
// directory is fine; an existing non-directory is an error.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
