// Package files provides file system operations for the powercast data
// tree. The Manager resolves the raw dataset and processed artifacts
// from the configured paths so that the loader never touches paths
// directly.
package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Manager provides file management operations over the data directories.
type Manager struct {
	rawPath      string
	processedDir string
}

// NewManager creates a new file manager for the given data locations.
func NewManager(rawPath, processedDir string) *Manager {
	return &Manager{rawPath: rawPath, processedDir: processedDir}
}

// RawPath returns the configured raw dataset path.
func (m *Manager) RawPath() string {
	return m.rawPath
}

// ProcessedPath returns the full path of a named processed artifact.
func (m *Manager) ProcessedPath(name string) string {
	return filepath.Join(m.processedDir, name)
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// EnsureProcessedDir creates the processed directory, including parents,
// if it does not exist.
func (m *Manager) EnsureProcessedDir() error {
	if _, err := os.Stat(m.processedDir); os.IsNotExist(err) {
		slog.Debug("creating processed directory",
			slog.String("path", m.processedDir))
		return os.MkdirAll(m.processedDir, 0755)
	}
	return nil
}

// ListProcessed returns the names of CSV artifacts in the processed
// directory (non-recursive). A missing directory yields an empty list.
func (m *Manager) ListProcessed() ([]string, error) {
	entries, err := os.ReadDir(m.processedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
