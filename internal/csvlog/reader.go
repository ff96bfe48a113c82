package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/netlogs/netincident/internal/probe"
)

// DefaultTimestampColumn is the column read when Options leaves it empty.
const DefaultTimestampColumn = "timestamp"

var (
	// ErrNoHeader is returned for an empty file.
	ErrNoHeader = errors.New("csvlog: missing header row")

	// ErrNoTimestampColumn is returned when the header lacks the timestamp column.
	ErrNoTimestampColumn = errors.New("csvlog: missing timestamp column")
)

// Options controls how a log is read.
type Options struct {
	// TimestampColumn defaults to "timestamp".
	TimestampColumn string

	// Location is used for timestamps without a zone. Defaults to time.Local.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.TimestampColumn == "" {
		o.TimestampColumn = DefaultTimestampColumn
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Load reads the CSV log at path.
func Load(path string, opts Options) (probe.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return probe.Table{}, fmt.Errorf("csvlog: open: %w", err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return probe.Table{}, fmt.Errorf("csvlog: load %s: %w", path, err)
	}
	return t, nil
}

// Read parses a CSV log from r. Rows are returned sorted by time; rows with an
// unparseable timestamp are skipped.
func Read(r io.Reader, opts Options) (probe.Table, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return probe.Table{}, ErrNoHeader
	}
	if err != nil {
		return probe.Table{}, fmt.Errorf("csvlog: read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tsIdx := -1
	for i, c := range header {
		if c == opts.TimestampColumn {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return probe.Table{}, fmt.Errorf("%w %q", ErrNoTimestampColumn, opts.TimestampColumn)
	}

	t := probe.Table{Columns: header}
	var dropped int
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return probe.Table{}, fmt.Errorf("csvlog: read line %d: %w", line, err)
		}
		if tsIdx >= len(rec) {
			dropped++
			continue
		}
		ts, err := probe.ParseTimestamp(rec[tsIdx], opts.Location)
		if err != nil {
			dropped++
			continue
		}
		fields := make(map[string]string, len(header))
		for i, v := range rec {
			if i < len(header) {
				fields[header[i]] = v
			}
		}
		t.Rows = append(t.Rows, probe.NewRow(ts, fields))
	}

	if dropped > 0 {
		slog.Debug("csvlog: dropped rows without a usable timestamp", "count", dropped)
	}

	t.SortByTime()
	return t, nil
}
