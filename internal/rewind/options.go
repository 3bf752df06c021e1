package rewind

import (
	"io"
	"log"
	"time"
)

// DefaultInternalDomains are hosts owned by the messaging platform; links
// to them are not counted as shared domains.
var DefaultInternalDomains = []string{
	"instagram.com",
	"ig.me",
	"facebook.com",
	"fb.com",
	"meta.com",
}

const (
	DefaultTopDomainLimit = 5
	DefaultReplyWindow    = 24 * time.Hour
)

// Options tunes a processing run. The zero value is usable: local time,
// the year resolved from today, and the default limits.
type Options struct {
	Location        *time.Location
	Year            int       // 0 resolves from ReferenceDate
	ReferenceDate   time.Time // zero means now
	InternalDomains []string
	TopDomainLimit  int
	ReplyWindow     time.Duration
	Progress        ProgressReporter
	Logger          *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.InternalDomains == nil {
		o.InternalDomains = DefaultInternalDomains
	}
	if o.TopDomainLimit <= 0 {
		o.TopDomainLimit = DefaultTopDomainLimit
	}
	if o.ReplyWindow <= 0 {
		o.ReplyWindow = DefaultReplyWindow
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) topDomainLimit() int {
	if o.TopDomainLimit <= 0 {
		return DefaultTopDomainLimit
	}
	return o.TopDomainLimit
}

// reportingYear honours an explicit year, otherwise applies the rollover
// rule to the reference date seen in the configured location.
func (o Options) reportingYear() int {
	if o.Year != 0 {
		return o.Year
	}
	ref := o.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}
	return ResolveReportingYear(ref.In(o.location()))
}
