package rewind

import "fmt"

// EmptyYearError means no message fell inside the reporting year.
type EmptyYearError struct {
	Year int
}

func (e *EmptyYearError) Error() string {
	return fmt.Sprintf("no messages found for %d. This rewind only shows data from %d, "+
		"your chat data appears to be from a different year", e.Year, e.Year)
}
