// Package storage manages downloaded asset files: atomic writes,
// duplicate detection and thread-safe bookkeeping.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Manager handles asset file storage and duplicate detection.
type Manager struct {
	outputDir string
	stored    map[string]bool
	overwrite bool
	mu        sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir. Existing
// files are indexed so repeated plans skip what is already on disk.
func NewManager(outputDir string, overwrite bool) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		stored:    make(map[string]bool),
		overwrite: overwrite,
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles indexes the files already present in the output
// directory.
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			m.stored[entry.Name()] = true
		}
	}

	return nil
}

// IsStored checks whether a file with the given name already exists.
// Always false when overwriting is enabled.
func (m *Manager) IsStored(filename string) bool {
	if m.overwrite {
		return false
	}

	m.mu.RLock()
	known := m.stored[filename]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err == nil {
		m.mu.Lock()
		m.stored[filename] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveAsset writes an asset from the reader under the given filename.
// The write goes to a temporary file first and is renamed into place.
func (m *Manager) SaveAsset(r io.Reader, filename string) error {
	destination := filepath.Join(m.outputDir, filename)

	tempFile := destination + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write asset data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, destination); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.stored[filename] = true
	m.mu.Unlock()

	return nil
}

// OutputDir returns the output directory path.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// StoredCount returns the number of known stored files.
func (m *Manager) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stored)
}
