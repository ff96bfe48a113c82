package report

import (
	"fmt"
	"io"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/pkg/incident"
)

// WriteText prints a short console summary of rep. csvPath, when non-empty,
// is mentioned as the location of the incident CSV.
func WriteText(w io.Writer, rep *analyze.Report, csvPath string) error {
	ew := &errWriter{w: w}

	if csvPath != "" {
		ew.printf("\nIncidents written to: %s\n", csvPath)
	}
	if len(rep.Incidents) == 0 {
		ew.printf("No anomalies found.\n")
		return ew.err
	}

	ew.printf("Detected incidents (%d from %d raw events):\n", len(rep.Incidents), rep.RawEvents)
	for _, ev := range rep.Incidents {
		ew.printf("%s\n", Line(ev))
	}
	return ew.err
}

// Line formats one incident as a console line.
func Line(ev incident.Event) string {
	rec := ev.Record()
	line := fmt.Sprintf("- [%s/%s] %s – %s (%s)", rec.Source, rec.Type, rec.Start, rec.End, rec.Duration)
	if rec.Details != "" {
		line += " | " + rec.Details
	}
	return line
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
