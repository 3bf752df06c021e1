package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

const progressWidth = 30

// progressReporter redraws a single status line on w. It renders the bar
// statically, without running a bubbletea program.
type progressReporter struct {
	mu   sync.Mutex
	w    io.Writer
	bar  progress.Model
	open bool
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

func (p *progressReporter) Report(message string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	percent = min(max(percent, 0), 100)
	fmt.Fprintf(p.w, "\r%s %-40s", p.bar.ViewAs(float64(percent)/100), message)
	p.open = true

	if percent == 100 {
		fmt.Fprintln(p.w)
		p.open = false
	}
}

// Finish ends a line left open by a run that stopped before 100%.
func (p *progressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
}
