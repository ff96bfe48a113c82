package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/internal/store"
	"github.com/netlogs/netincident/pkg/incident"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads analysis results from the report store and returns JSON responses.
type Handler struct {
	store *store.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the given report store and registers all routes.
func New(st *store.Store) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/incidents", h.incidents)
	h.mux.HandleFunc("/api/v1/summary", h.summary)
	h.mux.HandleFunc("/api/v1/history", h.history)
	h.mux.HandleFunc("/api/v1/report", h.report)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health. It always answers 200; the status is
// "waiting" until the first analysis is stored.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	e, ok := h.store.Latest()
	if !ok {
		jsonResp(w, http.StatusOK, HealthResponse{Status: "waiting"})
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		LastRun:       e.UpdatedAt.UTC().Format(time.RFC3339),
		Runs:          e.Seq,
		IncidentCount: len(e.Report.Incidents),
		RawEvents:     e.Report.RawEvents,
	})
}

// incidents returns GET /api/v1/incidents, optionally filtered by ?source=
// and ?type= (case-insensitive).
func (h *Handler) incidents(w http.ResponseWriter, r *http.Request) {
	e, ok := h.latest(w, r)
	if !ok {
		return
	}

	source := strings.TrimSpace(r.URL.Query().Get("source"))
	typ := strings.TrimSpace(r.URL.Query().Get("type"))

	out := make([]incident.Record, 0, len(e.Report.Incidents))
	for _, ev := range e.Report.Incidents {
		if source != "" && !strings.EqualFold(string(ev.Source), source) {
			continue
		}
		if typ != "" && !strings.EqualFold(string(ev.Type), typ) {
			continue
		}
		out = append(out, ev.Record())
	}
	jsonResp(w, http.StatusOK, IncidentsResponse{Count: len(out), Incidents: out})
}

// summary returns GET /api/v1/summary.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	e, ok := h.latest(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, toSummaryResponse(e.Report))
}

// history returns GET /api/v1/history: retained runs, newest first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.latest(w, r); !ok {
		return
	}

	entries := h.store.History()
	out := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryItem{
			Seq:         e.Seq,
			StoredAt:    e.UpdatedAt.UTC().Format(time.RFC3339),
			GeneratedAt: e.Report.GeneratedAt.UTC().Format(time.RFC3339),
			Total:       e.Report.Summary.Total,
			RawEvents:   e.Report.RawEvents,
			ByType:      typeCounts(e.Report.Summary),
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// report returns GET /api/v1/report: the full latest report.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	e, ok := h.latest(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, BuildReport(e))
}

// --- helpers ----------------------------------------------------------------

// latest applies the method check and returns the newest entry, writing a
// 405 or 503 response itself when it returns false.
func (h *Handler) latest(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	e, ok := h.store.Latest()
	if !ok {
		jsonErr(w, http.StatusServiceUnavailable, "no analysis available yet")
		return nil, false
	}
	return e, true
}

// BuildReport maps a store entry to its JSON representation. The WebSocket
// hub sends the same document.
func BuildReport(e *store.Entry) ReportResponse {
	rep := e.Report
	return ReportResponse{
		Seq:         e.Seq,
		GeneratedAt: rep.GeneratedAt.UTC().Format(time.RFC3339),
		Options: OptionsResponse{
			LatencyMs:       rep.Options.Thresholds.LatencyMs,
			LossPct:         rep.Options.Thresholds.LossPct,
			MergeGapSeconds: rep.Options.MergeGap.Seconds(),
		},
		Summary:   toSummaryResponse(rep),
		Incidents: incident.Records(rep.Incidents),
	}
}

func toSummaryResponse(rep *analyze.Report) SummaryResponse {
	s := rep.Summary
	resp := SummaryResponse{
		Total:        s.Total,
		BySource:     make(map[string]int, len(s.BySource)),
		ByType:       typeCounts(s),
		NetwatchRows: rep.NetwatchRows,
		FritzRows:    rep.FritzRows,
		RawEvents:    rep.RawEvents,
	}
	for src, n := range s.BySource {
		resp.BySource[string(src)] = n
	}
	if s.Total > 0 {
		resp.First = s.First.Format(incident.TimeLayout)
		resp.Last = s.Last.Format(incident.TimeLayout)
		resp.Span = incident.FormatDuration(s.Span())
		longest := s.Longest.Record()
		resp.Longest = &longest
	}
	return resp
}

func typeCounts(s analyze.Summary) map[string]int {
	out := make(map[string]int, len(s.ByType))
	for typ, n := range s.ByType {
		out[string(typ)] = n
	}
	return out
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
