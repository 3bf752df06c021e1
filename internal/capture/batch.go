package capture

import (
	"encoding/json"

	"github.com/jasperwreed/chat-rewind/internal/models"
)

// RawExport is a document that classified as a raw conversation export.
type RawExport struct {
	Name   string
	Record *models.ExportRecord
}

// Batch is a classified upload. Exactly one of Exports or Processed is set.
type Batch struct {
	Exports       []RawExport
	Processed     json.RawMessage
	ProcessedName string
}

// IsProcessed reports whether the batch is a single processed stats file
// that should be passed through as-is.
func (b *Batch) IsProcessed() bool {
	return b.Processed != nil
}

// Partition classifies every document and applies the batch rules:
// any unknown document, a mix of formats or more than one processed stats
// file rejects the whole batch.
func Partition(docs []Document) (*Batch, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	var exports []RawExport
	var processed []Document
	var unknown []string

	for _, doc := range docs {
		format, record := DetectFormat(doc.Data)
		switch format {
		case FormatRawExport:
			exports = append(exports, RawExport{Name: doc.Name, Record: record})
		case FormatProcessedStats:
			processed = append(processed, doc)
		default:
			unknown = append(unknown, doc.Name)
		}
	}

	if len(unknown) > 0 {
		return nil, &UnrecognizedFormatError{Files: unknown}
	}
	if len(exports) > 0 && len(processed) > 0 {
		return nil, ErrMixedFormats
	}
	if len(processed) > 1 {
		return nil, ErrMultipleProcessedStats
	}

	if len(processed) == 1 {
		return &Batch{
			Processed:     json.RawMessage(processed[0].Data),
			ProcessedName: processed[0].Name,
		}, nil
	}
	return &Batch{Exports: exports}, nil
}
