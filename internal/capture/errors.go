package capture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoDocuments            = errors.New("please select at least one JSON file")
	ErrMixedFormats           = errors.New("cannot mix raw chat export files and processed stats files, please upload only one type")
	ErrMultipleProcessedStats = errors.New("multiple processed stats files detected, please upload only one processed stats file")
)

// InvalidFileTypeError lists inputs rejected before parsing because they
// are not .json files.
type InvalidFileTypeError struct {
	Files []string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("invalid file types: %s. Please upload only JSON files", strings.Join(e.Files, ", "))
}

// UnrecognizedFormatError lists documents that are neither a raw export
// nor a processed stats file.
type UnrecognizedFormatError struct {
	Files []string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized file format in: %s. Please upload chat export files or processed stats JSON",
		strings.Join(e.Files, ", "))
}

type MismatchReason string

const (
	ReasonTitleMismatch            MismatchReason = "title_mismatch"
	ReasonParticipantCountMismatch MismatchReason = "participant_count_mismatch"
	ReasonParticipantNameMismatch  MismatchReason = "participant_name_mismatch"
)

// ConversationMismatchError reports the first difference found between an
// export and the first export of the batch. Only the fields matching
// Reason are populated.
type ConversationMismatchError struct {
	Reason        MismatchReason
	File          string
	Expected      string
	Found         string
	ExpectedCount int
	FoundCount    int
	ExpectedNames []string
	FoundNames    []string
}

func (e *ConversationMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("Files appear to be from different conversations. ")

	switch e.Reason {
	case ReasonTitleMismatch:
		fmt.Fprintf(&b, "Chat titles don't match. Expected: %q but found: %q in file %q. ",
			e.Expected, e.Found, e.File)
	case ReasonParticipantCountMismatch:
		fmt.Fprintf(&b, "Different number of participants. Expected: %d people, but found: %d people in file %q. ",
			e.ExpectedCount, e.FoundCount, e.File)
	case ReasonParticipantNameMismatch:
		fmt.Fprintf(&b, "Different participants. Expected: %s, but found: %s in file %q. ",
			strings.Join(e.ExpectedNames, ", "), strings.Join(e.FoundNames, ", "), e.File)
	}

	b.WriteString("Please ensure all uploaded files are from the same conversation.")
	return b.String()
}
