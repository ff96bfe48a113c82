package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/pkg/incident"
)

const namespace = "netincident"

var (
	incidentsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "incidents"),
		"Number of aggregated incidents in the last analysis.",
		[]string{"source", "type"}, nil,
	)
	durationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "incident_duration_seconds"),
		"Summed duration of aggregated incidents in the last analysis.",
		[]string{"source", "type"}, nil,
	)
	rowsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "rows"),
		"Rows with a valid timestamp read from each probe log.",
		[]string{"stream"}, nil,
	)
	rawEventsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "raw_events"),
		"Point events emitted by the detectors before aggregation.",
		nil, nil,
	)
	lastRunDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "last_analysis_timestamp_seconds"),
		"Unix time of the last completed analysis.",
		nil, nil,
	)
)

// Collector exports the latest report as Prometheus gauges. It reads the
// report lazily on every scrape; a nil report yields no samples.
type Collector struct {
	latest func() *analyze.Report
}

// NewCollector returns a Collector backed by latest.
func NewCollector(latest func() *analyze.Report) *Collector {
	return &Collector{latest: latest}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- incidentsDesc
	ch <- durationDesc
	ch <- rowsDesc
	ch <- rawEventsDesc
	ch <- lastRunDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	rep := c.latest()
	if rep == nil {
		return
	}

	for _, g := range groupIncidents(rep.Incidents) {
		ch <- prometheus.MustNewConstMetric(incidentsDesc, prometheus.GaugeValue,
			float64(g.count), string(g.source), string(g.typ))
		ch <- prometheus.MustNewConstMetric(durationDesc, prometheus.GaugeValue,
			g.seconds, string(g.source), string(g.typ))
	}

	ch <- prometheus.MustNewConstMetric(rowsDesc, prometheus.GaugeValue, float64(rep.NetwatchRows), "netwatch")
	ch <- prometheus.MustNewConstMetric(rowsDesc, prometheus.GaugeValue, float64(rep.FritzRows), "fritz")
	ch <- prometheus.MustNewConstMetric(rawEventsDesc, prometheus.GaugeValue, float64(rep.RawEvents))
	ch <- prometheus.MustNewConstMetric(lastRunDesc, prometheus.GaugeValue,
		float64(rep.GeneratedAt.UnixNano())/1e9)
}

type incidentGroup struct {
	source  incident.Source
	typ     incident.Type
	count   int
	seconds float64
}

// groupIncidents totals incidents per (source, type) in a stable order.
func groupIncidents(incidents []incident.Event) []incidentGroup {
	type key struct {
		s incident.Source
		t incident.Type
	}
	idx := make(map[key]int)
	var out []incidentGroup
	for _, ev := range incidents {
		k := key{ev.Source, ev.Type}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, incidentGroup{source: ev.Source, typ: ev.Type})
		}
		out[i].count++
		out[i].seconds += ev.Duration().Seconds()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].source != out[j].source {
			return out[i].source < out[j].source
		}
		return out[i].typ < out[j].typ
	})
	return out
}

// Gather registers a Collector for rep in a fresh registry and returns the
// resulting metric families.
func Gather(rep *analyze.Report) ([]*dto.MetricFamily, error) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewCollector(func() *analyze.Report { return rep })); err != nil {
		return nil, fmt.Errorf("report: register collector: %w", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("report: gather: %w", err)
	}
	return mfs, nil
}

// WriteMetrics writes rep in the Prometheus text exposition format, suitable
// for the node_exporter textfile collector.
func WriteMetrics(w io.Writer, rep *analyze.Report) error {
	mfs, err := Gather(rep)
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("report: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteMetricsFile writes the metrics exposition for rep to path.
func WriteMetricsFile(path string, rep *analyze.Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteMetrics(w, rep) })
}
