package cli

import (
	"fmt"
	"os"

	"github.com/jasperwreed/chat-rewind/internal/capture"
	"github.com/jasperwreed/chat-rewind/internal/rewind"
	"github.com/jasperwreed/chat-rewind/internal/scanner"
)

// expandInputs replaces every folder argument with the message files it
// holds, in export order. File arguments are kept as given.
func expandInputs(args []string) ([]string, error) {
	v := NewValidator()
	if err := v.ValidateInputs(args); err != nil {
		return nil, err
	}

	var paths []string
	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input not found: %w", err)
		}
		if !stat.IsDir() {
			if err := v.ValidateFile(arg); err != nil {
				return nil, err
			}
			paths = append(paths, arg)
			continue
		}

		files, err := scanner.FindFiles(arg, scanner.MessageFilePattern)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files in %s", scanner.MessageFilePattern, arg)
		}
		scanner.SortMessageFiles(files)
		paths = append(paths, files...)
	}
	return paths, nil
}

func readInputs(s *runSettings, args []string) ([]capture.Document, error) {
	s.report("Reading files...", 5)

	paths, err := expandInputs(args)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("reading %d file(s)", len(paths))

	return capture.ReadFiles(paths)
}

// processInputs runs the full pipeline over the command arguments.
func processInputs(s *runSettings, args []string) (*rewind.Result, error) {
	docs, err := readInputs(s, args)
	if err != nil {
		return nil, err
	}
	return rewind.NewProcessor(s.opts).Process(docs)
}
