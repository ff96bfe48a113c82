package probe

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is one timestamped probe snapshot.
type Row struct {
	Time   time.Time
	Fields map[string]string
}

// NewRow returns a Row at ts with the given column values.
func NewRow(ts time.Time, fields map[string]string) Row {
	if fields == nil {
		fields = map[string]string{}
	}
	return Row{Time: ts, Fields: fields}
}

// Str returns the raw value of col, or "" when the column is absent.
func (r Row) Str(col string) string {
	return r.Fields[col]
}

// Lookup returns the raw value of col and whether the row carries it.
func (r Row) Lookup(col string) (string, bool) {
	v, ok := r.Fields[col]
	return v, ok
}

// Float parses col as a float64. Missing, empty and non-numeric values all
// yield NaN.
func (r Row) Float(col string) float64 {
	return ParseFloat(r.Fields[col])
}

// ParseFloat converts s to a float64, returning NaN when s is empty or not a
// number.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Table is a header plus rows of one probe stream.
type Table struct {
	// Columns is the header in file order. When nil, column presence is
	// derived from the row keys.
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether col is part of the table.
func (t Table) HasColumn(col string) bool {
	if t.Columns != nil {
		for _, c := range t.Columns {
			if c == col {
				return true
			}
		}
		return false
	}
	for _, r := range t.Rows {
		if _, ok := r.Fields[col]; ok {
			return true
		}
	}
	return false
}

// ColumnNames returns Columns, or the sorted union of row keys when the table
// was built without a header.
func (t Table) ColumnNames() []string {
	if t.Columns != nil {
		return t.Columns
	}
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		for k := range r.Fields {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortByTime orders rows by non-decreasing Time, keeping the relative order
// of rows with equal timestamps.
func (t *Table) SortByTime() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Time.Before(t.Rows[j].Time)
	})
}
