package tracelog

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// TimeLayout is the strftime layout of trace line timestamps.
const TimeLayout = "%Y-%m-%d %H:%M:%S"

// Entry is one traced dispatch.
type Entry struct {
	Time    time.Time
	Page    string
	EventID string
	Mode    Mode
	Fields  []Field
	// Rendered is Fields rendered in Mode; empty when nothing was rendered.
	Rendered string
	// TraceID is the OpenTelemetry trace the dispatch ran under, if any.
	TraceID string
}

// Line formats the entry as a single trace log record:
//
//	2006-01-02 15:04:05 [main_page=<page>] <eventID>[, <rendered>]
func (e Entry) Line() string {
	var b strings.Builder
	b.WriteString(strftime.Format(TimeLayout, e.Time))
	b.WriteString(" [main_page=")
	b.WriteString(e.Page)
	b.WriteString("] ")
	b.WriteString(e.EventID)
	if e.Rendered != "" {
		b.WriteString(", ")
		b.WriteString(e.Rendered)
	}
	b.WriteString("\n")
	return b.String()
}
