package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
inputs:
  netwatch: logs/nw.csv
  fritz: logs/fr.csv
  timestamp_column: ts
  timezone: Europe/Berlin
thresholds:
  latency_ms: 35
  loss_pct: 2.5
  merge_gap_seconds: 90
output:
  csv: out/incidents.csv
  html: out/report.html
  metrics: out/netincident.prom
server:
  http_port: 9090
  broadcast_interval: 10s
  history: 5
`
	cfg := loadFromString(t, yaml)

	if cfg.Inputs.Netwatch != "logs/nw.csv" || cfg.Inputs.Fritz != "logs/fr.csv" {
		t.Errorf("inputs: got %+v", cfg.Inputs)
	}
	if cfg.Thresholds.LatencyMs != 35 || cfg.Thresholds.LossPct != 2.5 {
		t.Errorf("thresholds: got %+v", cfg.Thresholds)
	}
	if cfg.Thresholds.MergeGap() != 90*time.Second {
		t.Errorf("merge gap: got %v", cfg.Thresholds.MergeGap())
	}
	if cfg.Output.HTML != "out/report.html" || cfg.Output.Metrics != "out/netincident.prom" {
		t.Errorf("output: got %+v", cfg.Output)
	}
	if cfg.Server.HTTPPort != 9090 || cfg.Server.BroadcastInterval != 10*time.Second || cfg.Server.History != 5 {
		t.Errorf("server: got %+v", cfg.Server)
	}

	loc, err := cfg.Inputs.Location()
	if err != nil {
		t.Fatalf("Location(): %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("location: got %s", loc)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "thresholds:\n  latency_ms: 25\n")

	if cfg.Thresholds.LatencyMs != 25 {
		t.Errorf("latency_ms: got %v", cfg.Thresholds.LatencyMs)
	}
	if cfg.Thresholds.LossPct != DefaultLossPct {
		t.Errorf("default loss_pct: got %v, want %v", cfg.Thresholds.LossPct, DefaultLossPct)
	}
	if cfg.Thresholds.MergeGap() != 60*time.Second {
		t.Errorf("default merge gap: got %v", cfg.Thresholds.MergeGap())
	}
	if cfg.Inputs.Netwatch != DefaultNetwatchPath || cfg.Inputs.Fritz != DefaultFritzPath {
		t.Errorf("default inputs: got %+v", cfg.Inputs)
	}
	if cfg.Inputs.TimestampColumn != "timestamp" {
		t.Errorf("default timestamp column: got %q", cfg.Inputs.TimestampColumn)
	}
	if cfg.Output.CSV != DefaultOutputCSV {
		t.Errorf("default csv: got %q", cfg.Output.CSV)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("default http_port: got %d", cfg.Server.HTTPPort)
	}
	if loc, _ := cfg.Inputs.Location(); loc != time.Local {
		t.Errorf("default location: got %v, want Local", loc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative latency", "thresholds:\n  latency_ms: -1\n"},
		{"negative loss", "thresholds:\n  loss_pct: -0.5\n"},
		{"negative gap", "thresholds:\n  merge_gap_seconds: -60\n"},
		{"empty netwatch", "inputs:\n  netwatch: \"\"\n"},
		{"empty fritz", "inputs:\n  fritz: \"\"\n"},
		{"bad timezone", "inputs:\n  timezone: Mars/Olympus\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"zero interval", "server:\n  broadcast_interval: 0s\n"},
		{"bad yaml", "thresholds: [1, 2\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadStringErr(t, tc.yaml); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnalyzeConversion(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.LatencyMs = 42
	cfg.Thresholds.MergeGapSeconds = 1.5
	cfg.Inputs.Timezone = "UTC"

	opts := cfg.AnalyzeOptions()
	if opts.Thresholds.LatencyMs != 42 || opts.Thresholds.LossPct != DefaultLossPct {
		t.Errorf("thresholds: got %+v", opts.Thresholds)
	}
	if opts.MergeGap != 1500*time.Millisecond {
		t.Errorf("merge gap: got %v", opts.MergeGap)
	}

	in, err := cfg.AnalyzeInputs()
	if err != nil {
		t.Fatalf("AnalyzeInputs(): %v", err)
	}
	if in.NetwatchPath != DefaultNetwatchPath || in.CSV.Location != time.UTC || in.CSV.TimestampColumn != "timestamp" {
		t.Errorf("inputs: got %+v", in)
	}
}

func TestWatch_InputChangeTriggersReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "netincident.yaml")
	input := filepath.Join(dir, "netwatch_log.csv")
	writeFile(t, cfgPath, "thresholds:\n  latency_ms: 30\n")
	writeFile(t, input, "timestamp\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfgPath, []string{input}, notify(changes))
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, input, "timestamp\n2026-01-01 00:00:00\n")

	select {
	case c := <-changes:
		if c == nil || c.Thresholds.LatencyMs != 30 {
			t.Errorf("onChange got %+v", c)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification for input write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fritz_status_log.csv")
	writeFile(t, input, "timestamp\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	go Watch(ctx, "", []string{input}, notify(changes)) //nolint:errcheck

	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "other.txt"), "noise")

	select {
	case c := <-changes:
		t.Fatalf("unexpected notification: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}

	writeFile(t, input, "timestamp\n2026-01-01 00:00:00\n")
	select {
	case c := <-changes:
		if c != nil {
			t.Errorf("without a config path onChange should receive nil, got %+v", c)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification for input write")
	}
}

// notify returns a non-blocking onChange callback feeding ch.
func notify(ch chan *Config) func(*Config) {
	return func(c *Config) {
		select {
		case ch <- c:
		default:
		}
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and returns Load's result.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netincident.yaml")
	writeFile(t, path, content)
	return Load(path)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
