package kg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists samples to a directory tree. It is the single sink for
// generated data; the generator never touches the filesystem directly.
type Writer struct{}

// NewWriter creates a sample writer.
func NewWriter() *Writer { return &Writer{} }

// Write serializes the sample as indented JSON to <dir>/<base>.json.
func (w *Writer) Write(sample *Sample, dir, base string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating sample directory %q: %w", dir, err)
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sample %s: %w", base, err)
	}
	path := filepath.Join(dir, base+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing sample %q: %w", path, err)
	}
	return nil
}
