// Package api implements the HTTP REST API of the serve command.
//
// New(store) returns an http.Handler that serves:
//
//	GET /api/v1/health     status, last run time, run and incident counts
//	GET /api/v1/incidents  aggregated incidents; ?source= and ?type= filter
//	GET /api/v1/summary    counts by source and type, time range, longest
//	GET /api/v1/history    one summary line per retained run, newest first
//	GET /api/v1/report     thresholds, summary and incidents in one document
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Return 503 until the first analysis has been stored (health excepted,
//     which reports status "waiting")
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
