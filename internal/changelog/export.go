// Package changelog handles the two ends of a generated changelog: writing
// the markdown to disk and rendering it for the terminal.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is used when no output file is named.
const DefaultFilename = "CHANGELOG.md"

// Export writes content to filename, creating missing parent directories.
// An existing file is overwritten, not appended to. The write is a plain
// truncate-and-write with no temp file.
func Export(content, filename string) error {
	if filename == "" {
		filename = DefaultFilename
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", filename, err)
	}

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// ExportSummary is the tool-facing form of Export: it never fails, and
// reports the outcome as a sentence for the model.
func ExportSummary(content, filename string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	if err := Export(content, filename); err != nil {
		return "Error exporting changelog: " + err.Error()
	}
	return "Changelog exported to " + filename
}
