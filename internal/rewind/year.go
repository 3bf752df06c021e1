package rewind

import (
	"time"

	"github.com/jasperwreed/chat-rewind/internal/models"
)

// ResolveReportingYear picks the year a rewind covers. Through the end of
// March the previous, completed year is still shown.
func ResolveReportingYear(reference time.Time) int {
	if reference.Month() <= time.March {
		return reference.Year() - 1
	}
	return reference.Year()
}

// YearBounds returns [Jan 1 of year, Jan 1 of year+1) in loc as unix
// milliseconds.
func YearBounds(year int, loc *time.Location) (start, end int64) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc).UnixMilli()
	end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).UnixMilli()
	return start, end
}

// FilterToYear keeps messages timestamped inside the calendar year in loc.
// Order is preserved. An empty result is an *EmptyYearError.
func FilterToYear(messages []models.Message, year int, loc *time.Location) ([]models.Message, error) {
	start, end := YearBounds(year, loc)

	kept := make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.TimestampMs >= start && msg.TimestampMs < end {
			kept = append(kept, msg)
		}
	}

	if len(kept) == 0 {
		return nil, &EmptyYearError{Year: year}
	}
	return kept, nil
}
