package parser

import (
	"fmt"
	"time"
)

// Metadata carries file-level context through parsing, mostly for error messages.
type Metadata struct {
	filePath string
	loadedAt time.Time
}

// FilePath returns the source file path
func (m *Metadata) FilePath() string { return m.filePath }

// LoadedAt returns the time the file was picked up
func (m *Metadata) LoadedAt() time.Time { return m.loadedAt }

// NewMetadata creates validated metadata
func NewMetadata(filePath string, loadedAt time.Time) (*Metadata, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if loadedAt.IsZero() {
		return nil, fmt.Errorf("loaded time cannot be zero")
	}
	return &Metadata{filePath: filePath, loadedAt: loadedAt}, nil
}
