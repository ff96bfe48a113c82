package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/internal/store"
	wsHub "github.com/netlogs/netincident/internal/ws"
	"github.com/netlogs/netincident/pkg/incident"
)

const testInterval = 50 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func newStore(reps ...*analyze.Report) *store.Store {
	st := store.New(10)
	for _, r := range reps {
		st.Put(r)
	}
	return st
}

// report builds a report with n DNS failures one minute apart.
func report(n int) *analyze.Report {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	incidents := make([]incident.Event, 0, n)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		incidents = append(incidents, incident.Event{
			Source: incident.SourcePC, Type: incident.TypeDNSFail,
			Start: at, End: at, Details: "dns_ok=0",
		})
	}
	return &analyze.Report{
		GeneratedAt: base.Add(time.Hour),
		RawEvents:   n,
		Incidents:   incidents,
		Summary:     analyze.Summarize(incidents),
		Options:     analyze.DefaultOptions(),
	}
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
func startHub(t *testing.T, st *store.Store, interval time.Duration) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(st, interval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(hub)
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads and decodes one message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m wsHub.Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateReport(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore(report(2)), time.Hour)

	m := readMessage(t, dial(t, wsURL))
	if m.Event != "report" {
		t.Errorf("event: got %q, want report", m.Event)
	}
	if len(m.Data.Incidents) != 2 || m.Data.Summary.Total != 2 {
		t.Errorf("data: got %d incidents, total %d", len(m.Data.Incidents), m.Data.Summary.Total)
	}
	if m.Data.GeneratedAt == "" {
		t.Error("generated_at: missing")
	}
}

func TestHub_EmptyStore_NoInitialMessage(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore(), testInterval)
	conn := dial(t, wsURL)

	conn.SetReadDeadline(time.Now().Add(3 * testInterval))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected no message before the first report")
	}
}

func TestHub_BroadcastOnStoreUpdate(t *testing.T) {
	st := newStore(report(1))
	// A long interval leaves the store signal as the only trigger.
	wsURL, _, _ := startHub(t, st, time.Hour)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate report

	st.Put(report(3))

	m := readMessage(t, conn)
	if m.Data.Seq != 2 || len(m.Data.Incidents) != 3 {
		t.Errorf("update broadcast: got seq %d with %d incidents", m.Data.Seq, len(m.Data.Incidents))
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore(report(1)), testInterval)

	conn := dial(t, wsURL)
	first := readMessage(t, conn)
	next := readMessage(t, conn)
	if next.Data.Seq != first.Data.Seq {
		t.Errorf("tick should resend the same report: seq %d vs %d", next.Data.Seq, first.Data.Seq)
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore(report(1)), time.Hour)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
		conns = append(conns, conn)
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	conns[0].Close()
	time.Sleep(100 * time.Millisecond) // let readPump detect the close
	if n := hub.Count(); n != 2 {
		t.Errorf("Count after disconnect: got %d, want 2", n)
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, cancel := startHub(t, newStore(report(1)), time.Hour)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	cancel()

	time.Sleep(100 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed after cancel")
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(newStore(), testInterval)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
