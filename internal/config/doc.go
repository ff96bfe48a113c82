// Package config loads and watches the netincident configuration file.
//
// Top-level types:
//   - Config{Inputs, Thresholds, Output, Server}: full tree parsed from YAML
//   - InputsConfig: netwatch/fritz log paths, timestamp_column, timezone
//   - ThresholdsConfig: latency_ms, loss_pct, merge_gap_seconds
//   - OutputConfig: csv, html, metrics file paths for the analyze command
//   - ServerConfig: http_port, broadcast_interval, history for serve mode
//
// Load(path) reads the YAML file, applies defaults (20 ms, 1 %, 60 s gap,
// port 8080), then validates required fields and ranges. Default() returns
// the same defaults for runs without a config file.
//
// Watch(ctx, path, extra, onChange) uses fsnotify to detect writes to the
// config file or the input logs and calls onChange with the re-read Config.
// It watches the parent directories so atomic-save editors (vim, VS Code) and
// log rotators that rename into place are still seen.
package config
