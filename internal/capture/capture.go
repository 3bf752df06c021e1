package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Document is one uploaded file: its display name and raw JSON.
type Document struct {
	Name string
	Data []byte
}

// ReadDocument reads a JSON document from r and checks it parses.
func ReadDocument(name string, r io.Reader) (Document, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return Document{}, fmt.Errorf("failed to read file %q: %w", name, err)
	}

	data := buf.Bytes()
	if !json.Valid(data) {
		return Document{}, fmt.Errorf("failed to parse JSON in file %q", name)
	}

	return Document{Name: name, Data: data}, nil
}

// ReadFiles loads every path as a document. All paths must end in .json.
func ReadFiles(paths []string) ([]Document, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	var invalid []string
	for _, path := range paths {
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			invalid = append(invalid, filepath.Base(path))
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidFileTypeError{Files: invalid}
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading files: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadDocument(filepath.Base(path), file)
}
