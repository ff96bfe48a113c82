// Package probe is the typed view over one probe stream.
//
// A Table holds the header columns of a log file and its rows sorted by time.
// Each Row is a timestamp plus a column → string mapping; a missing key and an
// empty string are treated alike. Numeric columns are read with Row.Float,
// which returns NaN for anything that does not parse.
//
// ParseTimestamp accepts "2006-01-02 15:04:05", "02.01.2006 15:04:05" and
// ISO-8601 variants, in that order.
//
// Targets scans the header once for ping_<target>_avg_ms columns.
package probe
