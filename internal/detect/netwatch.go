package detect

import (
	"math"
	"strings"

	"github.com/netlogs/netincident/internal/probe"
	"github.com/netlogs/netincident/pkg/incident"
)

// Default thresholds applied when the caller does not override them.
const (
	DefaultLatencyMs = 20.0
	DefaultLossPct   = 1.0
)

// Netwatch column names.
const (
	colDNSOK       = "dns_ok"
	colDNSMs       = "dns_ms"
	colAdapter     = "adapter"
	colMediaStatus = "media_status"
)

// transitionColumns are compared row-to-row; order fixes emission order.
var transitionColumns = []string{colAdapter, colMediaStatus}

// dnsFailValues are the dns_ok values that mark a failed lookup.
var dnsFailValues = map[string]bool{"0": true, "False": true, "false": true}

// Thresholds configures the netwatch spike rules. A value strictly greater
// than the threshold fires.
type Thresholds struct {
	LatencyMs float64
	LossPct   float64
}

// DefaultThresholds returns the stock 20 ms / 1 % thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{LatencyMs: DefaultLatencyMs, LossPct: DefaultLossPct}
}

// Netwatch returns the raw PC-side events found in t.
func Netwatch(t probe.Table, th Thresholds) []incident.Event {
	var out []incident.Event

	if t.HasColumn(colDNSOK) {
		out = append(out, dnsFailures(t)...)
	}

	if t.Len() > 1 {
		for _, col := range transitionColumns {
			if t.HasColumn(col) {
				out = append(out, transitions(t, col)...)
			}
		}
	}

	// Targets are discovered once per table, not per row.
	for _, target := range probe.Targets(t) {
		out = append(out, pingSpikes(t, target, th)...)
	}

	return out
}

func dnsFailures(t probe.Table) []incident.Event {
	var out []incident.Event
	for _, r := range t.Rows {
		if !dnsFailValues[r.Str(colDNSOK)] {
			continue
		}
		details := "dns_ms=" + r.Str(colDNSMs)
		out = append(out, point(incident.SourcePC, incident.TypeDNSFail, r, details, strings.TrimSpace(details)))
	}
	return out
}

func transitions(t probe.Table, col string) []incident.Event {
	typ := incident.Type(strings.ToUpper(col) + "_CHANGE")

	var out []incident.Event
	prev := t.Rows[0].Str(col)
	for _, r := range t.Rows[1:] {
		cur := r.Str(col)
		if cur != prev {
			details := col + ": " + prev + " -> " + cur
			out = append(out, point(incident.SourcePC, typ, r, details, col))
		}
		prev = cur
	}
	return out
}

func pingSpikes(t probe.Table, target string, th Thresholds) []incident.Event {
	avgCol := probe.AvgColumn(target)
	lossCol := probe.LossColumn(target)

	var out []incident.Event
	for _, r := range t.Rows {
		avg := r.Float(avgCol)
		if !math.IsNaN(avg) && avg > th.LatencyMs {
			out = append(out, point(incident.SourcePC, incident.TypeLatencySpike, r,
				target+": "+formatFloat(avg)+"ms", target))
		}
	}

	if !t.HasColumn(lossCol) {
		return out
	}
	for _, r := range t.Rows {
		loss := r.Float(lossCol)
		if !math.IsNaN(loss) && loss > th.LossPct {
			out = append(out, point(incident.SourcePC, incident.TypeLossSpike, r,
				target+": "+formatFloat(loss)+"%", target))
		}
	}
	return out
}
