// Package report renders an analyze.Report for people and for Prometheus.
//
// WriteText prints the console summary, WriteHTML a self-contained HTML page
// with the time range, counts by type and source and the incident table.
//
// Collector exposes a report as Prometheus gauges; the serve command
// registers it for /metrics and WriteMetrics encodes the same series in the
// text exposition format for node_exporter's textfile collector.
package report
