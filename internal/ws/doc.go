// Package ws implements the WebSocket hub of the serve command.
//
// Hub manages a set of connected clients and pushes the latest analysis
// report to all of them whenever the store receives a new one, and again on
// a fixed interval so late or lossy clients converge.
//
// New(store, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast loop and blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket and sends the current
// report immediately on connect if one exists.
//
// Message format sent to clients:
//
//	{
//	  "event": "report",
//	  "data":  { /* same schema as GET /api/v1/report */ }
//	}
//
// The upgrader accepts all origins. The serve command mounts the hub at
// /ws/stream.
package ws
