package rewind

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jasperwreed/chat-rewind/internal/capture"
	"github.com/jasperwreed/chat-rewind/internal/models"
)

const defaultChatTitle = "Chat"

// Result is the outcome of one run: either freshly computed stats or a
// processed stats document passed through untouched.
type Result struct {
	RunID       string
	Stats       *models.RewindStats
	Passthrough json.RawMessage
}

// JSON renders the result the way it is exported, indented by two spaces.
// Passthrough documents are returned byte for byte.
func (r *Result) JSON() ([]byte, error) {
	if r.Passthrough != nil {
		return r.Passthrough, nil
	}
	return json.MarshalIndent(r.Stats, "", "  ")
}

// Decode returns the stats, reading them out of a passed-through document
// when needed.
func (r *Result) Decode() (*models.RewindStats, error) {
	if r.Stats != nil {
		return r.Stats, nil
	}

	var stats models.RewindStats
	if err := json.Unmarshal(r.Passthrough, &stats); err != nil {
		return nil, fmt.Errorf("failed to read processed stats: %w", err)
	}
	return &stats, nil
}

// Year is the reporting year, or 0 when a passed-through document does
// not carry one.
func (r *Result) Year() int {
	if r.Stats != nil {
		return r.Stats.RewindYear
	}

	var header struct {
		RewindYear int `json:"rewind_year"`
	}
	if err := json.Unmarshal(r.Passthrough, &header); err != nil {
		return 0
	}
	return header.RewindYear
}

// Processor runs the full pipeline over one upload batch. It holds no
// state between runs, so one Processor may serve concurrent calls.
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts.withDefaults()}
}

// Process classifies, checks and aggregates the documents. Every failure
// happens before aggregation starts.
func (p *Processor) Process(docs []capture.Document) (*Result, error) {
	runID := uuid.NewString()
	logger := p.opts.Logger
	logger.Printf("run %s: %d document(s)", runID, len(docs))

	report(p.opts.Progress, "Validating file formats...", 15)
	batch, err := capture.Partition(docs)
	if err != nil {
		return nil, err
	}

	if batch.IsProcessed() {
		logger.Printf("run %s: passing through processed stats %s", runID, batch.ProcessedName)
		report(p.opts.Progress, "Loading processed stats...", 100)
		return &Result{RunID: runID, Passthrough: batch.Processed}, nil
	}

	report(p.opts.Progress, "Validating conversation consistency...", 25)
	if err := capture.CheckConsistency(batch.Exports); err != nil {
		return nil, err
	}

	report(p.opts.Progress, "Processing chat data...", 40)
	stats, err := p.Run(batch.Exports)
	if err != nil {
		return nil, fmt.Errorf("error processing chat data: %w", err)
	}

	logger.Printf("run %s: %d messages counted for %d", runID, stats.TotalMessages, stats.RewindYear)
	report(p.opts.Progress, "Finalizing data...", 100)
	return &Result{RunID: runID, Stats: stats}, nil
}

// Run aggregates raw exports that already passed classification and the
// consistency check.
func (p *Processor) Run(exports []capture.RawExport) (*models.RewindStats, error) {
	participants, title, messages := merge(exports)
	sortMessages(messages)

	year := p.opts.reportingYear()
	inYear, err := FilterToYear(messages, year, p.opts.location())
	if err != nil {
		return nil, err
	}

	report(p.opts.Progress, fmt.Sprintf("Processing %d messages...", len(inYear)), 50)
	acc := NewAggregator(p.opts).Aggregate(inYear, participants)

	report(p.opts.Progress, "Calculating statistics...", 85)
	stats := Derive(acc, p.opts)
	stats.RewindYear = year
	stats.ChatTitle = title

	report(p.opts.Progress, "Processing complete!", 95)
	return stats, nil
}

// merge concatenates messages. Participants come from the first export,
// the title from the first export that has one.
func merge(exports []capture.RawExport) ([]string, string, []models.Message) {
	var participants []string
	title := ""
	total := 0
	for _, e := range exports {
		total += len(e.Record.Messages)
	}

	messages := make([]models.Message, 0, total)
	for _, e := range exports {
		if participants == nil {
			participants = e.Record.ParticipantNames()
		}
		if title == "" {
			title = e.Record.Title
		}
		messages = append(messages, e.Record.Messages...)
	}

	if title == "" {
		title = defaultChatTitle
	}
	return participants, title, messages
}

// sortMessages orders by timestamp, breaking ties by sender then content so
// the result does not depend on the order files were supplied in.
func sortMessages(messages []models.Message) {
	slices.SortStableFunc(messages, func(a, b models.Message) int {
		return cmp.Or(
			cmp.Compare(a.TimestampMs, b.TimestampMs),
			cmp.Compare(a.SenderName, b.SenderName),
			cmp.Compare(a.Content.Value, b.Content.Value),
		)
	})
}
