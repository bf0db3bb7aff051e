package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// WriteOutput writes t as indented JSON to path. The document is written to
// a temporary file in the same directory and renamed into place, so path
// either keeps its previous content or holds the complete new document.
func WriteOutput(path string, t *tutorial.Tutorial) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tutorial: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace output file: %w", err)
	}
	return nil
}

// ReadOutput reads a tutorial document written by WriteOutput.
func ReadOutput(path string) (*tutorial.Tutorial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tutorial: %w", err)
	}
	var t tutorial.Tutorial
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode tutorial %s: %w", path, err)
	}
	return &t, nil
}
