package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MessageFilePattern matches the per-thread message files of an export.
const MessageFilePattern = "message_*.json"

// Thread is one conversation folder inside an export tree.
type Thread struct {
	Dir      string
	Name     string
	Title    string
	Files    []string
	Messages int
	Size     int64
	ModTime  string
}

type ScanResult struct {
	Root         string
	ThreadsFound int
	Threads      []Thread
	Failed       int
	Errors       []string
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func FindFiles(root string, pattern string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if !info.IsDir() && matchesPattern(path, pattern) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func matchesPattern(path, pattern string) bool {
	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}

// ThreadFromPath names the thread a message file belongs to: the nearest
// enclosing directory that is not hidden.
func ThreadFromPath(path string) string {
	dir := filepath.Dir(path)
	parts := strings.Split(dir, string(filepath.Separator))

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && !strings.HasPrefix(parts[i], ".") {
			return parts[i]
		}
	}

	return "unknown"
}
