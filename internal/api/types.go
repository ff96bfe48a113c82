package api

import "github.com/netlogs/netincident/pkg/incident"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	// Status is "ok" once a report is stored, "waiting" before.
	Status        string `json:"status"`
	LastRun       string `json:"last_run,omitempty"` // RFC3339
	Runs          uint64 `json:"runs"`
	IncidentCount int    `json:"incident_count"`
	RawEvents     int    `json:"raw_events"`
}

// IncidentsResponse is the payload for GET /api/v1/incidents.
type IncidentsResponse struct {
	Count     int               `json:"count"`
	Incidents []incident.Record `json:"incidents"`
}

// SummaryResponse is the payload for GET /api/v1/summary.
type SummaryResponse struct {
	Total        int              `json:"total"`
	BySource     map[string]int   `json:"by_source"`
	ByType       map[string]int   `json:"by_type"`
	First        string           `json:"first,omitempty"`
	Last         string           `json:"last,omitempty"`
	Span         string           `json:"span,omitempty"`
	Longest      *incident.Record `json:"longest,omitempty"`
	NetwatchRows int              `json:"netwatch_rows"`
	FritzRows    int              `json:"fritz_rows"`
	RawEvents    int              `json:"raw_events"`
}

// HistoryItem is one run in GET /api/v1/history.
type HistoryItem struct {
	Seq         uint64         `json:"seq"`
	StoredAt    string         `json:"stored_at"`    // RFC3339
	GeneratedAt string         `json:"generated_at"` // RFC3339
	Total       int            `json:"total"`
	RawEvents   int            `json:"raw_events"`
	ByType      map[string]int `json:"by_type"`
}

// OptionsResponse echoes the thresholds a report was produced with.
type OptionsResponse struct {
	LatencyMs       float64 `json:"latency_ms"`
	LossPct         float64 `json:"loss_pct"`
	MergeGapSeconds float64 `json:"merge_gap_seconds"`
}

// ReportResponse is the payload for GET /api/v1/report and the data field of
// every WebSocket message.
type ReportResponse struct {
	Seq         uint64            `json:"seq"`
	GeneratedAt string            `json:"generated_at"` // RFC3339
	Options     OptionsResponse   `json:"options"`
	Summary     SummaryResponse   `json:"summary"`
	Incidents   []incident.Record `json:"incidents"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
