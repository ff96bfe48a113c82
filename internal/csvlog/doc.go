// Package csvlog reads probe logs from CSV and writes the incident CSV.
//
// Load/Read parse a header-first CSV into a probe.Table: the timestamp column
// is parsed with probe.ParseTimestamp, rows whose timestamp does not parse are
// dropped, and the remaining rows are sorted by time. Every other column is
// kept as a raw string.
//
// WriteIncidents emits source,type,start,end,duration,details rows.
package csvlog
