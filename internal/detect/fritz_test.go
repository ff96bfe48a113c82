package detect

import (
	"strings"
	"testing"

	"github.com/netlogs/netincident/internal/probe"
	"github.com/netlogs/netincident/pkg/incident"
)

var fritzCols = []string{
	"timestamp", "wan_connection_status", "wan_uptime_s", "wan_external_ip",
	"wan_last_error", "dsl_link_status",
}

// fritzRow builds a healthy router row with overrides applied.
func fritzRow(overrides map[string]string) map[string]string {
	r := map[string]string{
		"wan_connection_status": "Connected",
		"wan_uptime_s":          "1000",
		"wan_external_ip":       "203.0.113.7",
		"dsl_link_status":       "Up",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func TestFritz_WANReconnect(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(map[string]string{"wan_uptime_s": "1000"}),
		fritzRow(map[string]string{"wan_uptime_s": "10"}),
	)

	got := Fritz(tbl)
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1: %+v", len(got), got)
	}
	ev := got[0]
	if ev.Type != incident.TypeWANReconnect || ev.Source != incident.SourceFritz {
		t.Errorf("got %s/%s", ev.Source, ev.Type)
	}
	if !strings.Contains(ev.Details, "1000") || !strings.Contains(ev.Details, "10") {
		t.Errorf("details = %q, want both uptimes", ev.Details)
	}
	if ev.Details != "uptime 1000s -> 10s" {
		t.Errorf("details = %q", ev.Details)
	}
	if !ev.Start.Equal(tick(60)) {
		t.Errorf("start = %v, want second row", ev.Start)
	}
}

func TestFritz_UptimeTruncatesFloats(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(map[string]string{"wan_uptime_s": "3600.9"}),
		fritzRow(map[string]string{"wan_uptime_s": "5.7"}),
	)
	got := ofType(Fritz(tbl), incident.TypeWANReconnect)
	if len(got) != 1 || got[0].Details != "uptime 3600s -> 5s" {
		t.Errorf("got %+v", got)
	}
}

func TestFritz_UptimeMissingDoesNotFire(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(map[string]string{"wan_uptime_s": "1000"}),
		fritzRow(map[string]string{"wan_uptime_s": ""}),
		fritzRow(map[string]string{"wan_uptime_s": "10"}),
	)
	if got := ofType(Fritz(tbl), incident.TypeWANReconnect); len(got) != 0 {
		t.Errorf("reconnect fired across a missing uptime: %+v", got)
	}
}

func TestFritz_WANStatusChange(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(nil),
		fritzRow(map[string]string{"wan_connection_status": "Disconnected"}),
		fritzRow(nil),
	)

	got := ofType(Fritz(tbl), incident.TypeWANStatusChange)
	if len(got) != 2 {
		t.Fatalf("status changes = %d, want 2", len(got))
	}
	if got[0].Details != "Connected -> Disconnected" || got[0].Key != "Connected" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Details != "Disconnected -> Connected" || got[1].Key != "Disconnected" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestFritz_ExternalIPChange(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(map[string]string{"wan_external_ip": ""}),
		fritzRow(map[string]string{"wan_external_ip": "203.0.113.7"}),
		fritzRow(map[string]string{"wan_external_ip": "198.51.100.2"}),
		fritzRow(map[string]string{"wan_external_ip": ""}),
	)

	got := ofType(Fritz(tbl), incident.TypeExternalIPChange)
	if len(got) != 1 {
		t.Fatalf("ip changes = %d, want 1 (empty transitions ignored)", len(got))
	}
	if got[0].Details != "203.0.113.7 -> 198.51.100.2" {
		t.Errorf("details = %q", got[0].Details)
	}
	if !got[0].Start.Equal(tick(120)) {
		t.Errorf("start = %v", got[0].Start)
	}
}

func TestFritz_DSLLinkAbnormal(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(map[string]string{"dsl_link_status": "Down"}),
		fritzRow(map[string]string{"dsl_link_status": "UP"}),
		fritzRow(map[string]string{"dsl_link_status": "connected"}),
		fritzRow(map[string]string{"dsl_link_status": "Connected"}),
		fritzRow(map[string]string{"dsl_link_status": ""}),
		fritzRow(map[string]string{"dsl_link_status": "Down"}),
	)

	got := ofType(Fritz(tbl), incident.TypeDSLLinkAbnormal)
	if len(got) != 2 {
		t.Fatalf("DSL events = %d, want 2", len(got))
	}
	if !got[0].Start.Equal(tick(0)) {
		t.Errorf("first-row DSL event should fire, got start %v", got[0].Start)
	}
	if got[1].Details != "dsl_link_status=Down" {
		t.Errorf("details = %q", got[1].Details)
	}
}

func TestFritz_StableProducesNothing(t *testing.T) {
	tbl := table(fritzCols, fritzRow(nil), fritzRow(map[string]string{"wan_uptime_s": "1060"}), fritzRow(map[string]string{"wan_uptime_s": "1120"}))
	if got := Fritz(tbl); len(got) != 0 {
		t.Errorf("stable rows produced %+v", got)
	}
}

func TestFritz_EmptyTable(t *testing.T) {
	if got := Fritz(probe.Table{}); len(got) != 0 {
		t.Errorf("empty table produced %d events", len(got))
	}
}

func TestFritz_MultipleRulesSameRow(t *testing.T) {
	tbl := table(fritzCols,
		fritzRow(nil),
		fritzRow(map[string]string{
			"wan_uptime_s":          "3",
			"wan_connection_status": "Connecting",
			"wan_external_ip":       "198.51.100.9",
			"dsl_link_status":       "Training",
		}),
	)
	got := Fritz(tbl)
	if len(got) != 4 {
		t.Fatalf("events = %d, want one per rule: %+v", len(got), got)
	}
	for _, ev := range got {
		if !ev.Start.Equal(tick(60)) {
			t.Errorf("%s at %v, want %v", ev.Type, ev.Start, tick(60))
		}
	}
}
