package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netlogs/netincident/internal/burst"
	"github.com/netlogs/netincident/internal/csvlog"
	"github.com/netlogs/netincident/internal/detect"
	"github.com/netlogs/netincident/internal/probe"
	"github.com/netlogs/netincident/pkg/incident"
)

// Options carries the detection and aggregation thresholds.
type Options struct {
	Thresholds detect.Thresholds
	MergeGap   time.Duration
}

// DefaultOptions returns the stock thresholds and a 60s merge gap.
func DefaultOptions() Options {
	return Options{Thresholds: detect.DefaultThresholds(), MergeGap: burst.DefaultGap}
}

// Inputs names the two CSV logs to analyse.
type Inputs struct {
	NetwatchPath string
	FritzPath    string
	CSV          csvlog.Options
}

// Report is the outcome of one analysis run.
type Report struct {
	GeneratedAt  time.Time
	NetwatchRows int
	FritzRows    int
	RawEvents    int
	Incidents    []incident.Event
	Summary      Summary
	Options      Options
}

// now is swapped in tests.
var now = time.Now

// Run detects and aggregates incidents over two in-memory tables.
func Run(ctx context.Context, netwatch, fritz probe.Table, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	var pcEvents, fritzEvents []incident.Event

	// Detectors never fail; the group only joins them.
	var g errgroup.Group
	g.Go(func() error {
		pcEvents = detect.Netwatch(netwatch, opts.Thresholds)
		return nil
	})
	g.Go(func() error {
		fritzEvents = detect.Fritz(fritz)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	raw := make([]incident.Event, 0, len(pcEvents)+len(fritzEvents))
	raw = append(raw, pcEvents...)
	raw = append(raw, fritzEvents...)

	incidents := burst.Aggregate(raw, opts.MergeGap)

	slog.Info("analyze: incidents detected",
		"netwatch_rows", netwatch.Len(),
		"fritz_rows", fritz.Len(),
		"raw_events", len(raw),
		"incidents", len(incidents),
	)

	return &Report{
		GeneratedAt:  now(),
		NetwatchRows: netwatch.Len(),
		FritzRows:    fritz.Len(),
		RawEvents:    len(raw),
		Incidents:    incidents,
		Summary:      Summarize(incidents),
		Options:      opts,
	}, nil
}

// RunFiles loads both logs concurrently and then calls Run.
func RunFiles(ctx context.Context, in Inputs, opts Options) (*Report, error) {
	var netwatch, fritz probe.Table

	var g errgroup.Group
	g.Go(func() error {
		t, err := csvlog.Load(in.NetwatchPath, in.CSV)
		if err != nil {
			return fmt.Errorf("analyze: netwatch log: %w", err)
		}
		netwatch = t
		return nil
	})
	g.Go(func() error {
		t, err := csvlog.Load(in.FritzPath, in.CSV)
		if err != nil {
			return fmt.Errorf("analyze: fritz log: %w", err)
		}
		fritz = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Run(ctx, netwatch, fritz, opts)
}
