// Command netincident turns the CSV logs of a PC network probe and a router
// status poller into a list of merged network incidents.
//
//	netincident analyze --netwatch netwatch_log.csv --fritz fritz_status_log.csv
//	netincident serve --config netincident.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "netincident:", err)
		os.Exit(1)
	}
}
