package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/pkg/incident"
)

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Network Incidents Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: #fff; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
h1 { color: #333; border-bottom: 3px solid #4ECDC4; padding-bottom: 10px; }
.stats { display: flex; flex-wrap: wrap; gap: 16px; margin: 20px 0; }
.stat { flex: 1; min-width: 160px; background: #4ECDC4; color: #fff; padding: 16px; border-radius: 6px; }
.stat .value { font-size: 28px; font-weight: bold; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; font-size: 14px; }
th { background: #333; color: #fff; }
tr:hover { background: #f1f1f1; }
.src-PC { color: #FF6B6B; font-weight: bold; }
.src-FRITZ { color: #45B7D1; font-weight: bold; }
.empty { color: #2e7d32; font-size: 18px; }
footer { color: #888; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
<div class="container">
<h1>Network Incidents Report</h1>
{{if .Total}}
<div class="stats">
  <div class="stat"><div>Total incidents</div><div class="value">{{.Total}}</div></div>
  <div class="stat"><div>Raw events</div><div class="value">{{.RawEvents}}</div></div>
  <div class="stat"><div>Time range</div><div>{{.First}}<br>{{.Last}}</div></div>
  <div class="stat"><div>Longest</div><div>{{.LongestType}}<br>{{.LongestDuration}}</div></div>
</div>

<h2>By type</h2>
<table>
<tr><th>Type</th><th>Count</th></tr>
{{range .Types}}<tr><td>{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>By source</h2>
<table>
<tr><th>Source</th><th>Count</th></tr>
{{range .Sources}}<tr><td class="src-{{.Name}}">{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Incidents</h2>
<table>
<tr><th>Source</th><th>Type</th><th>Start</th><th>End</th><th>Duration</th><th>Details</th></tr>
{{range .Records}}<tr><td class="src-{{.Source}}">{{.Source}}</td><td>{{.Type}}</td><td>{{.Start}}</td><td>{{.End}}</td><td>{{.Duration}}</td><td>{{.Details}}</td></tr>
{{end}}</table>
{{else}}
<p class="empty">No anomalies found.</p>
{{end}}
<footer>
Generated {{.GeneratedAt}} · {{.NetwatchRows}} netwatch rows, {{.FritzRows}} router rows ·
latency &gt; {{.LatencyMs}} ms, loss &gt; {{.LossPct}} %, merge gap {{.MergeGap}}
</footer>
</div>
</body>
</html>
`))

// pageData is the template view of a report.
type pageData struct {
	Total           int
	RawEvents       int
	First, Last     string
	LongestType     string
	LongestDuration string
	Types           []analyze.Count
	Sources         []analyze.Count
	Records         []incident.Record
	GeneratedAt     string
	NetwatchRows    int
	FritzRows       int
	LatencyMs       float64
	LossPct         float64
	MergeGap        string
}

func newPageData(rep *analyze.Report) pageData {
	s := rep.Summary
	d := pageData{
		Total:        s.Total,
		RawEvents:    rep.RawEvents,
		Types:        s.TypeCounts(),
		Sources:      s.SourceCounts(),
		Records:      incident.Records(rep.Incidents),
		GeneratedAt:  rep.GeneratedAt.Format(incident.TimeLayout),
		NetwatchRows: rep.NetwatchRows,
		FritzRows:    rep.FritzRows,
		LatencyMs:    rep.Options.Thresholds.LatencyMs,
		LossPct:      rep.Options.Thresholds.LossPct,
		MergeGap:     rep.Options.MergeGap.String(),
	}
	if s.Total > 0 {
		d.First = s.First.Format(incident.TimeLayout)
		d.Last = s.Last.Format(incident.TimeLayout)
		d.LongestType = string(s.Longest.Type)
		d.LongestDuration = incident.FormatDuration(s.Longest.Duration())
	}
	return d
}

// WriteHTML renders rep as a standalone HTML page.
func WriteHTML(w io.Writer, rep *analyze.Report) error {
	if err := pageTmpl.Execute(w, newPageData(rep)); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}

// WriteHTMLFile renders rep to path, creating parent directories.
func WriteHTMLFile(path string, rep *analyze.Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteHTML(w, rep) })
}

// writeFile creates path (and its directory) and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	return nil
}
