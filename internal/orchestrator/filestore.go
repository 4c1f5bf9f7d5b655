package orchestrator

import (
	"io/fs"
	"os"
	"slices"
	"strings"
)

// FileStore is the orchestrator's view of the site tree. Paths are OS paths.
type FileStore interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	// ListHTML returns the names of the .html files directly inside dir,
	// sorted. A missing dir yields an error satisfying errors.Is(err, fs.ErrNotExist).
	ListHTML(dir string) ([]string, error)
}

// OSFileStore reads and writes the local file system.
type OSFileStore struct{}

func (OSFileStore) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// WriteFile replaces name in place, keeping its permission bits.
func (OSFileStore) WriteFile(name string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(name, data, perm)
}

func (OSFileStore) ListHTML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".html") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
