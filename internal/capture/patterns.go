package capture

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jasperwreed/chat-rewind/internal/models"
)

// FormatType is the detected kind of an uploaded document.
type FormatType int

const (
	FormatUnknown FormatType = iota
	FormatRawExport
	FormatProcessedStats
)

func (f FormatType) String() string {
	switch f {
	case FormatRawExport:
		return "raw export"
	case FormatProcessedStats:
		return "processed stats"
	default:
		return "unknown"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DetectFormat classifies a JSON document. Raw exports take precedence, so
// a document shaped like both is treated as a raw export. The parsed record
// is returned only for FormatRawExport.
func DetectFormat(data []byte) (FormatType, *models.ExportRecord) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return FormatUnknown, nil
	}

	if record, ok := asRawExport(doc, data); ok {
		return FormatRawExport, record
	}
	if isProcessedStats(doc) {
		return FormatProcessedStats, nil
	}
	return FormatUnknown, nil
}

func asRawExport(doc map[string]any, data []byte) (*models.ExportRecord, bool) {
	if _, ok := doc["title"].(string); !ok {
		return nil, false
	}
	if _, ok := doc["participants"].([]any); !ok {
		return nil, false
	}
	if _, ok := doc["messages"].([]any); !ok {
		return nil, false
	}

	var record models.ExportRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false
	}
	if err := validate.Struct(&record); err != nil {
		return nil, false
	}
	return &record, true
}

func isProcessedStats(doc map[string]any) bool {
	if _, ok := doc["total_messages"].(float64); !ok {
		return false
	}
	switch doc["per_sender"].(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
