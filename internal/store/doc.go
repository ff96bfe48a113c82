// Package store keeps the results of the serve loop's analysis runs in
// memory. It is a thread-safe holder of the latest report plus a bounded
// history of earlier runs, with change notification for the WebSocket hub.
package store
