// Package output serializes the export artifact.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// WriteOptions configures how the export is written
type WriteOptions struct {
	MergeMode bool   // If true, load existing file and append activities
	FilePath  string // Output path (empty = stdout)
}

// WriteExport serializes the export to JSON with 2-space indentation
func WriteExport(export *domain.Export, w io.Writer) error {
	if export == nil {
		return fmt.Errorf("export cannot be nil")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export as JSON: %w", err)
	}

	return nil
}

// WriteExportToFile writes the export to file or stdout based on options
func WriteExportToFile(export *domain.Export, opts WriteOptions) (err error) {
	if export == nil {
		return fmt.Errorf("export cannot be nil")
	}

	if opts.MergeMode && opts.FilePath != "" {
		existing, err := LoadExport(opts.FilePath)
		if err != nil {
			// A missing file degrades to fresh mode
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load existing export for merge: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: merge mode requested but %s does not exist, creating new file\n", opts.FilePath)
		} else {
			existing.Append(export.Activities()...)
			export = existing
		}
	}

	if opts.FilePath == "" {
		return WriteExport(export, os.Stdout)
	}

	f, err := os.Create(opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", opts.FilePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", opts.FilePath, closeErr)
		}
	}()

	if err = WriteExport(export, f); err != nil {
		return fmt.Errorf("failed to write export to %s: %w", opts.FilePath, err)
	}

	return nil
}

// LoadExport reads an existing export artifact for merge mode
func LoadExport(filePath string) (*domain.Export, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	f, err := os.Open(filePath)
	if err != nil {
		// Return unwrapped error so caller can check os.IsNotExist
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", filePath, closeErr)
		}
	}()

	var export domain.Export
	decoder := json.NewDecoder(f)
	if err := decoder.Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode export JSON: %w", err)
	}

	return &export, nil
}
