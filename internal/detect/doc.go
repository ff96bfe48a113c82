// Package detect turns sorted probe tables into raw incident events.
//
// Netwatch scans the PC-side stream for DNS failures, adapter/media status
// transitions and per-target latency or loss above the configured thresholds.
// Fritz scans the router stream for uptime resets, WAN status and external IP
// changes, and DSL link states other than up/connected.
//
// Both functions are pure: they never mutate the table, keep no state between
// calls and may run concurrently. Every event they return is a point event
// (Start == End) with Key set to its grouping key. Values that are missing or
// do not parse simply produce no event.
//
// Transition rules compare each row with the immediately preceding row only,
// so an A → B → A oscillation yields two events.
package detect
