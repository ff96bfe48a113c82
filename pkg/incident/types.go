package incident

import "time"

// TimeLayout is the canonical timestamp format used in every output.
const TimeLayout = "2006-01-02 15:04:05"

// Source identifies which probe stream an event was derived from.
type Source string

// Known sources.
const (
	SourcePC    Source = "PC"
	SourceFritz Source = "FRITZ"
)

// Type is the incident kind tag.
type Type string

// Incident types emitted by the detectors.
const (
	TypeDNSFail           Type = "DNS_FAIL"
	TypeAdapterChange     Type = "ADAPTER_CHANGE"
	TypeMediaStatusChange Type = "MEDIA_STATUS_CHANGE"
	TypeLatencySpike      Type = "LATENCY_SPIKE"
	TypeLossSpike         Type = "LOSS_SPIKE"
	TypeWANReconnect      Type = "WAN_RECONNECT"
	TypeWANStatusChange   Type = "WAN_STATUS_CHANGE"
	TypeExternalIPChange  Type = "EXTERNAL_IP_CHANGE"
	TypeDSLLinkAbnormal   Type = "DSL_LINK_ABNORMAL"
)

// Types lists every incident type in a stable display order.
var Types = []Type{
	TypeDNSFail,
	TypeAdapterChange,
	TypeMediaStatusChange,
	TypeLatencySpike,
	TypeLossSpike,
	TypeWANReconnect,
	TypeWANStatusChange,
	TypeExternalIPChange,
	TypeDSLLinkAbnormal,
}

// Event is a detected incident.
//
// Detectors emit point events where Start == End. The burst aggregator widens
// End and joins Details when it folds several events of the same group.
type Event struct {
	Source  Source
	Type    Type
	Start   time.Time
	End     time.Time
	Details string

	// Key is the grouping key used by the aggregator together with Source and
	// Type. Detectors always set it; when empty the aggregator derives one
	// from Details.
	Key string
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Record is the flattened, string-only representation of an Event.
type Record struct {
	Source   string `json:"source"`
	Type     string `json:"type"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
	Details  string `json:"details"`
}

// Record converts e to its output representation.
func (e Event) Record() Record {
	return Record{
		Source:   string(e.Source),
		Type:     string(e.Type),
		Start:    e.Start.Format(TimeLayout),
		End:      e.End.Format(TimeLayout),
		Duration: FormatDuration(e.Duration()),
		Details:  e.Details,
	}
}

// Records converts a slice of events, preserving order.
func Records(events []Event) []Record {
	out := make([]Record, 0, len(events))
	for _, e := range events {
		out = append(out, e.Record())
	}
	return out
}
