package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetHomeDir(t *testing.T) {
	home, err := GetHomeDir()
	if err != nil {
		t.Fatalf("GetHomeDir() error = %v", err)
	}

	if home == "" {
		t.Error("GetHomeDir() returned empty string")
	}

	if _, err := os.Stat(home); err != nil {
		t.Errorf("GetHomeDir() returned non-existent directory: %v", home)
	}
}

func TestFileExists(t *testing.T) {
	tempPath := filepath.Join(t.TempDir(), "exists.json")
	if err := os.WriteFile(tempPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "existing file",
			path:     tempPath,
			expected: true,
		},
		{
			name:     "non-existent file",
			path:     "/non/existent/file/that/should/not/exist.json",
			expected: false,
		},
		{
			name:     "empty path",
			path:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FileExists(tt.path)
			if result != tt.expected {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestFindFiles(t *testing.T) {
	tempDir := t.TempDir()

	files := []string{
		"inbox/ana_1/message_1.json",
		"inbox/ana_1/message_2.json",
		"inbox/ana_1/photos/img.jpg",
		"inbox/ben_2/message_1.json",
		"inbox/ben_2/notes.json",
		"README.txt",
	}

	for _, file := range files {
		fullPath := filepath.Join(tempDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fullPath, []byte("test"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name          string
		root          string
		pattern       string
		expectedCount int
	}{
		{"message files", tempDir, MessageFilePattern, 3},
		{"all json files", tempDir, "*.json", 4},
		{"pattern with no matches", tempDir, "*.go", 0},
		{"non-existent root directory", "/non/existent/path", MessageFilePattern, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := FindFiles(tt.root, tt.pattern)
			if err != nil {
				t.Errorf("FindFiles() error = %v", err)
			}

			if len(found) != tt.expectedCount {
				t.Errorf("FindFiles() found %d files, want %d", len(found), tt.expectedCount)
			}
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pattern  string
		expected bool
	}{
		{"first message file", "/inbox/ana_1/message_1.json", MessageFilePattern, true},
		{"later message file", "/inbox/ana_1/message_12.json", MessageFilePattern, true},
		{"other json", "/inbox/ana_1/notes.json", MessageFilePattern, false},
		{"html export", "/inbox/ana_1/message_1.html", MessageFilePattern, false},
		{"question mark wildcard", "/inbox/message_3.json", "message_?.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matchesPattern(tt.path, tt.pattern)
			if result != tt.expected {
				t.Errorf("matchesPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, result, tt.expected)
			}
		})
	}
}

func TestThreadFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "thread folder",
			path:     "/exports/messages/inbox/ana_1234/message_1.json",
			expected: "ana_1234",
		},
		{
			name:     "hidden directory skipped",
			path:     "/exports/ben_9/.cache/message_1.json",
			expected: "ben_9",
		},
		{
			name:     "root level file",
			path:     "/message_1.json",
			expected: "unknown",
		},
		{
			name:     "bare file name",
			path:     "message_1.json",
			expected: "unknown",
		},
		{
			name:     "relative path",
			path:     "inbox/cat_5/message_2.json",
			expected: "cat_5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ThreadFromPath(tt.path)
			if result != tt.expected {
				t.Errorf("ThreadFromPath(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestSortMessageFiles(t *testing.T) {
	paths := []string{
		"t/message_10.json",
		"t/message_2.json",
		"t/message_odd.json",
		"t/message_1.json",
	}

	SortMessageFiles(paths)

	want := []string{
		"t/message_1.json",
		"t/message_2.json",
		"t/message_10.json",
		"t/message_odd.json",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("SortMessageFiles() = %v, want %v", paths, want)
	}
}

func writeExport(t *testing.T, path, title string, messages int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	body := ""
	for i := 0; i < messages; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"sender_name": "Ana", "timestamp_ms": %d, "content": "m"}`, 1718000000000+int64(i))
	}
	data := fmt.Sprintf(`{"title": %q, "participants": [{"name": "Ana"}, {"name": "Ben"}], "messages": [%s]}`, title, body)

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExportScannerScan(t *testing.T) {
	root := t.TempDir()
	writeExport(t, filepath.Join(root, "ana_1", "message_2.json"), "Ana", 3)
	writeExport(t, filepath.Join(root, "ana_1", "message_1.json"), "Ana", 4)
	writeExport(t, filepath.Join(root, "ben_2", "message_1.json"), "Ben", 1)
	if err := os.WriteFile(filepath.Join(root, "ben_2", "message_2.json"), []byte(`{"nope": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewExportScanner(root).Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if result.Root != root {
		t.Errorf("Root = %q, want %q", result.Root, root)
	}
	if result.ThreadsFound != 2 || len(result.Threads) != 2 {
		t.Fatalf("found %d threads, want 2", result.ThreadsFound)
	}
	if result.Failed != 1 || len(result.Errors) != 1 {
		t.Errorf("Failed = %d, Errors = %v; want one failure", result.Failed, result.Errors)
	}

	busiest := result.Threads[0]
	if busiest.Name != "ana_1" || busiest.Title != "Ana" || busiest.Messages != 7 {
		t.Errorf("first thread = %+v", busiest)
	}
	wantFiles := []string{
		filepath.Join(root, "ana_1", "message_1.json"),
		filepath.Join(root, "ana_1", "message_2.json"),
	}
	if !reflect.DeepEqual(busiest.Files, wantFiles) {
		t.Errorf("Files = %v, want %v", busiest.Files, wantFiles)
	}
	if busiest.Size == 0 || busiest.ModTime == "" {
		t.Errorf("expected size and mod time, got %+v", busiest)
	}

	docs, err := busiest.Documents()
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "message_1.json" {
		t.Errorf("Documents() = %d docs, first %q", len(docs), docs[0].Name)
	}
}

func TestExportScannerMissingRoot(t *testing.T) {
	result, err := NewExportScanner(filepath.Join(t.TempDir(), "missing")).Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.ThreadsFound != 0 || result.Root != "" {
		t.Errorf("Scan() = %+v, want empty result", result)
	}
}

func TestFindFiles_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	tempDir := t.TempDir()
	restrictedDir := filepath.Join(tempDir, "restricted")
	if err := os.MkdirAll(restrictedDir, 0755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(restrictedDir, 0755) })

	if err := os.WriteFile(filepath.Join(restrictedDir, "message_1.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "message_2.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(restrictedDir, 0000); err != nil {
		t.Fatal(err)
	}

	found, err := FindFiles(tempDir, MessageFilePattern)
	if err != nil {
		t.Errorf("FindFiles() should not return error for permission denied: %v", err)
	}

	if len(found) != 1 || filepath.Base(found[0]) != "message_2.json" {
		t.Errorf("FindFiles() = %v, want only the accessible file", found)
	}
}
