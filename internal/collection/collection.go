package collection

import (
	"fmt"
	"os"
	"path/filepath"
)

// Discover lists collection directories under inputDir: every subdirectory
// containing a query.json. When no subdirectory qualifies but the root itself
// holds a query.json, the root is treated as a single collection.
func Discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(inputDir, e.Name())
		if hasQueryFile(dir) {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 && hasQueryFile(inputDir) {
		dirs = append(dirs, inputDir)
	}
	return dirs, nil
}

func hasQueryFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, QueryFileName))
	return err == nil && !info.IsDir()
}
