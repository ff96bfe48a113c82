package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/netlogs/netincident/pkg/incident"
)

// incidentHeader is the column order of the incident CSV.
var incidentHeader = []string{"source", "type", "start", "end", "duration", "details"}

// WriteIncidents writes incidents to w in the given order.
func WriteIncidents(w io.Writer, incidents []incident.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(incidentHeader); err != nil {
		return fmt.Errorf("csvlog: write header: %w", err)
	}
	for _, rec := range incident.Records(incidents) {
		row := []string{rec.Source, rec.Type, rec.Start, rec.End, rec.Duration, rec.Details}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csvlog: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvlog: flush: %w", err)
	}
	return nil
}

// WriteIncidentsFile writes incidents to path, creating parent directories.
func WriteIncidentsFile(path string, incidents []incident.Event) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csvlog: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvlog: create: %w", err)
	}
	if err := WriteIncidents(f, incidents); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvlog: close: %w", err)
	}
	return nil
}
