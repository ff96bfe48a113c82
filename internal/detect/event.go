package detect

import (
	"strconv"
	"strings"

	"github.com/netlogs/netincident/internal/probe"
	"github.com/netlogs/netincident/pkg/incident"
)

// point builds a raw event at r's timestamp.
func point(src incident.Source, typ incident.Type, r probe.Row, details, key string) incident.Event {
	return incident.Event{
		Source:  src,
		Type:    typ,
		Start:   r.Time,
		End:     r.Time,
		Details: details,
		Key:     key,
	}
}

// formatFloat renders v the way the probe logs historically printed floats:
// shortest round-trip digits, always with a fractional part ("50" → "50.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
