package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/internal/config"
	"github.com/netlogs/netincident/internal/csvlog"
	"github.com/netlogs/netincident/internal/report"
)

type analyzeOptions struct {
	configPath string
	netwatch   string
	fritz      string
	out        string
	latency    float64
	loss       float64
	mergeGap   float64
	html       string
	metrics    string
	quiet      bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Detect and merge incidents once and write the results",
		Long: `Reads both logs, detects anomalies, merges bursts into incidents, writes the
incident CSV and prints a console summary. Flags override values from --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cfg, opts.quiet)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults apply when omitted)")
	f.StringVar(&opts.netwatch, "netwatch", config.DefaultNetwatchPath, "PC probe log")
	f.StringVar(&opts.fritz, "fritz", config.DefaultFritzPath, "router status log")
	f.StringVarP(&opts.out, "out", "o", config.DefaultOutputCSV, "incident CSV to write; empty disables")
	f.Float64Var(&opts.latency, "latency", config.DefaultLatencyMs, "latency spike threshold in ms")
	f.Float64Var(&opts.loss, "loss", config.DefaultLossPct, "packet loss spike threshold in percent")
	f.Float64Var(&opts.mergeGap, "merge-gap", config.DefaultMergeGapSeconds, "largest gap in seconds that still merges two events")
	f.StringVar(&opts.html, "html", "", "also write an HTML report to this path")
	f.StringVar(&opts.metrics, "metrics", "", "also write a Prometheus textfile to this path")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the console summary")

	return cmd
}

// apply copies every flag the user set explicitly onto cfg.
func (o *analyzeOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("netwatch") {
		cfg.Inputs.Netwatch = o.netwatch
	}
	if f.Changed("fritz") {
		cfg.Inputs.Fritz = o.fritz
	}
	if f.Changed("out") {
		cfg.Output.CSV = o.out
	}
	if f.Changed("latency") {
		cfg.Thresholds.LatencyMs = o.latency
	}
	if f.Changed("loss") {
		cfg.Thresholds.LossPct = o.loss
	}
	if f.Changed("merge-gap") {
		cfg.Thresholds.MergeGapSeconds = o.mergeGap
	}
	if f.Changed("html") {
		cfg.Output.HTML = o.html
	}
	if f.Changed("metrics") {
		cfg.Output.Metrics = o.metrics
	}
}

func runAnalyze(ctx context.Context, stdout io.Writer, cfg *config.Config, quiet bool) error {
	in, err := cfg.AnalyzeInputs()
	if err != nil {
		return err
	}
	rep, err := analyze.RunFiles(ctx, in, cfg.AnalyzeOptions())
	if err != nil {
		return err
	}

	if cfg.Output.CSV != "" {
		if err := csvlog.WriteIncidentsFile(cfg.Output.CSV, rep.Incidents); err != nil {
			return err
		}
		slog.Info("incidents written", "path", cfg.Output.CSV, "count", len(rep.Incidents))
	}
	if cfg.Output.HTML != "" {
		if err := report.WriteHTMLFile(cfg.Output.HTML, rep); err != nil {
			return err
		}
		slog.Info("html report written", "path", cfg.Output.HTML)
	}
	if cfg.Output.Metrics != "" {
		if err := report.WriteMetricsFile(cfg.Output.Metrics, rep); err != nil {
			return err
		}
		slog.Info("metrics written", "path", cfg.Output.Metrics)
	}

	if quiet {
		return nil
	}
	if err := report.WriteText(stdout, rep, cfg.Output.CSV); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}
	return nil
}
