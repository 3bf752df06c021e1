package rewind

// ProgressReporter receives human-readable phase descriptions and an
// overall completion estimate between 0 and 100. Reports are advisory.
type ProgressReporter interface {
	Report(message string, percent int)
}

// ProgressFunc adapts a plain function to ProgressReporter.
type ProgressFunc func(message string, percent int)

func (f ProgressFunc) Report(message string, percent int) {
	f(message, percent)
}

func report(p ProgressReporter, message string, percent int) {
	if p != nil {
		p.Report(message, percent)
	}
}
