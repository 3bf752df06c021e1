package scanner

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jasperwreed/chat-rewind/internal/capture"
)

// inboxPath is where exports keep one folder per conversation.
var inboxPath = filepath.Join("your_instagram_activity", "messages", "inbox")

// ExportScanner finds conversation folders under an unpacked export.
type ExportScanner struct {
	root string
}

// NewExportScanner scans root. An empty root falls back to the usual
// download locations in the home directory.
func NewExportScanner(root string) *ExportScanner {
	return &ExportScanner{root: root}
}

func (s *ExportScanner) ScanPaths() []string {
	if s.root != "" {
		return []string{s.root}
	}

	home, err := GetHomeDir()
	if err != nil {
		return []string{}
	}

	return []string{
		filepath.Join(home, "Downloads", inboxPath),
		filepath.Join(home, inboxPath),
	}
}

// Scan groups message files by folder. Files that are not raw exports are
// counted as failures and do not stop the scan.
func (s *ExportScanner) Scan() (*ScanResult, error) {
	result := &ScanResult{}

	for _, basePath := range s.ScanPaths() {
		if !FileExists(basePath) {
			continue
		}
		if result.Root == "" {
			result.Root = basePath
		}

		files, err := FindFiles(basePath, MessageFilePattern)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", basePath, err)
		}

		byDir := make(map[string][]string)
		for _, f := range files {
			dir := filepath.Dir(f)
			byDir[dir] = append(byDir[dir], f)
		}

		for dir, paths := range byDir {
			thread := s.inspect(dir, paths, result)
			if len(thread.Files) > 0 {
				result.Threads = append(result.Threads, thread)
			}
		}
	}

	slices.SortFunc(result.Threads, func(a, b Thread) int {
		return cmp.Or(cmp.Compare(b.Messages, a.Messages), cmp.Compare(a.Dir, b.Dir))
	})
	result.ThreadsFound = len(result.Threads)
	return result, nil
}

func (s *ExportScanner) inspect(dir string, paths []string, result *ScanResult) Thread {
	SortMessageFiles(paths)
	thread := Thread{Dir: dir, Name: ThreadFromPath(paths[0])}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		format, record := capture.DetectFormat(data)
		if format != capture.FormatRawExport {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s format", path, format))
			continue
		}

		if thread.Title == "" {
			thread.Title = record.Title
		}
		thread.Files = append(thread.Files, path)
		thread.Messages += len(record.Messages)

		if info, err := os.Stat(path); err == nil {
			thread.Size += info.Size()
			if mod := info.ModTime().Format("2006-01-02 15:04"); mod > thread.ModTime {
				thread.ModTime = mod
			}
		}
	}

	return thread
}

// Documents loads the thread's files as one upload batch.
func (t Thread) Documents() ([]capture.Document, error) {
	return capture.ReadFiles(t.Files)
}

// SortMessageFiles orders message_N.json files by N. Names without a
// number sort after numbered ones.
func SortMessageFiles(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		na, oka := messageNumber(a)
		nb, okb := messageNumber(b)
		switch {
		case oka && okb:
			return cmp.Or(cmp.Compare(na, nb), cmp.Compare(a, b))
		case oka:
			return -1
		case okb:
			return 1
		}
		return cmp.Compare(a, b)
	})
}

func messageNumber(path string) (int, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	n, err := strconv.Atoi(strings.TrimPrefix(name, "message_"))
	return n, err == nil
}
