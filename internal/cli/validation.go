package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jasperwreed/chat-rewind/internal/scanner"
)

// Validator provides methods for validating CLI inputs
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInputs checks that at least one input was given and each exists.
func (v *Validator) ValidateInputs(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("at least one export file or folder is required")
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input not found: %w", err)
		}
	}
	return nil
}

// ValidateDirectory checks an export or output folder. An empty path means
// the caller's default and is accepted.
func (v *Validator) ValidateDirectory(path string) error {
	if path == "" {
		return nil
	}

	stat, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("folder does not exist: %s", path)
	case err != nil:
		return fmt.Errorf("cannot open folder %s: %w", path, err)
	case !stat.IsDir():
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}

// ValidateFile checks a single export file argument. The extension is left
// to intake so every rejected name is reported together.
func (v *Validator) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	stat, err := os.Stat(path)
	switch {
	case err != nil:
		return fmt.Errorf("file not found: %w", err)
	case stat.IsDir():
		return fmt.Errorf("path is a directory, not a file: %s", path)
	case stat.Size() == 0:
		return fmt.Errorf("export file is empty: %s", path)
	}
	return nil
}

// ResolvePath makes path absolute. A leading ~ is the home directory,
// which is where platform exports usually get unpacked.
func (v *Validator) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := scanner.GetHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// DefaultOutputName is the stats file name for a reporting year.
func (v *Validator) DefaultOutputName(year int) string {
	if year == 0 {
		return "instagram-rewind-stats.json"
	}
	return fmt.Sprintf("instagram-rewind-%d-stats.json", year)
}

// ResolveOutputPath turns the --out value into a file path. An existing
// directory gets the default file name for year.
func (v *Validator) ResolveOutputPath(out string, year int) (string, error) {
	resolved, err := v.ResolvePath(out)
	if err != nil {
		return "", err
	}

	if stat, err := os.Stat(resolved); err == nil && stat.IsDir() {
		return filepath.Join(resolved, v.DefaultOutputName(year)), nil
	}

	if err := v.ValidateDirectory(filepath.Dir(resolved)); err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	return resolved, nil
}
