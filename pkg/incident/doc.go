// Package incident defines the event types shared by the detectors, the burst
// aggregator and every writer.
//
// An Event is either a raw point event emitted by a detector (Start == End) or
// an aggregated burst of raw events (End >= Start, Details possibly joined
// with " | "). Record is the flattened output view used by the CSV writer and
// the HTTP API.
//
// FormatDuration renders a span as "42s", "3m 7s" or "2h 15m".
package incident
