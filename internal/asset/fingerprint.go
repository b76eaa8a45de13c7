package asset

import (
	"fmt"
	"os"
)

// statFile validates that path exists and is a regular file, returning its
// size and modification time in the same (size, unixNano) shape every
// importer stamps into Info.
func statFile(path string) (size int64, modNano int64, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("stat %q: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return 0, 0, fmt.Errorf("source path %q is not a regular file", path)
	}
	return fi.Size(), fi.ModTime().UnixNano(), nil
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
