package detect

import (
	"math"
	"strconv"
	"strings"

	"github.com/netlogs/netincident/internal/probe"
	"github.com/netlogs/netincident/pkg/incident"
)

// Router status column names.
const (
	colWANUptime     = "wan_uptime_s"
	colWANStatus     = "wan_connection_status"
	colExternalIP    = "wan_external_ip"
	colDSLLinkStatus = "dsl_link_status"
)

// healthyLinkStates are the lower-cased dsl_link_status values that do not
// raise an incident.
var healthyLinkStates = map[string]bool{"up": true, "connected": true}

// Fritz returns the raw router-side events found in t.
func Fritz(t probe.Table) []incident.Event {
	var out []incident.Event
	for i, r := range t.Rows {
		if i > 0 {
			out = append(out, pairwise(t.Rows[i-1], r)...)
		}
		if ev, ok := dslAbnormal(r); ok {
			out = append(out, ev)
		}
	}
	return out
}

// pairwise applies the rules that compare r with its predecessor.
func pairwise(prev, r probe.Row) []incident.Event {
	var out []incident.Event

	uPrev, uNow := prev.Float(colWANUptime), r.Float(colWANUptime)
	if !math.IsNaN(uPrev) && !math.IsNaN(uNow) && uNow < uPrev {
		from := "uptime " + strconv.FormatInt(int64(uPrev), 10) + "s"
		details := from + " -> " + strconv.FormatInt(int64(uNow), 10) + "s"
		out = append(out, point(incident.SourceFritz, incident.TypeWANReconnect, r, details, from))
	}

	sPrev, sNow := prev.Str(colWANStatus), r.Str(colWANStatus)
	if sNow != sPrev {
		out = append(out, point(incident.SourceFritz, incident.TypeWANStatusChange, r,
			sPrev+" -> "+sNow, strings.TrimSpace(sPrev)))
	}

	ipPrev, ipNow := prev.Str(colExternalIP), r.Str(colExternalIP)
	if ipPrev != "" && ipNow != "" && ipNow != ipPrev {
		out = append(out, point(incident.SourceFritz, incident.TypeExternalIPChange, r,
			ipPrev+" -> "+ipNow, strings.TrimSpace(ipPrev)))
	}

	return out
}

func dslAbnormal(r probe.Row) (incident.Event, bool) {
	status := r.Str(colDSLLinkStatus)
	if status == "" || healthyLinkStates[strings.ToLower(status)] {
		return incident.Event{}, false
	}
	details := "dsl_link_status=" + status
	return point(incident.SourceFritz, incident.TypeDSLLinkAbnormal, r, details, strings.TrimSpace(details)), true
}
