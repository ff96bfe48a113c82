package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/netlogs/netincident/internal/analyze"
	"github.com/netlogs/netincident/internal/api"
	"github.com/netlogs/netincident/internal/config"
	"github.com/netlogs/netincident/internal/report"
	"github.com/netlogs/netincident/internal/store"
	"github.com/netlogs/netincident/internal/ws"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	configPath string
	port       int
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest analysis over HTTP, WebSocket and /metrics",
		Long: `Runs the analysis at start-up and again whenever the config file or one of
the input logs changes. The latest report is served on:

  /api/v1/*     JSON API
  /ws/stream    WebSocket push of every new report
  /report.html  HTML report
  /metrics      Prometheus metrics

Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.HTTPPort = opts.port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), opts.configPath, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file, watched for changes")
	cmd.Flags().IntVarP(&opts.port, "port", "p", config.DefaultHTTPPort, "HTTP listen port")
	return cmd
}

func runServe(ctx context.Context, cfgPath string, cfg *config.Config) error {
	slog.Info("netincident serve starting",
		"config", cfgPath,
		"http_port", cfg.Server.HTTPPort,
		"netwatch", cfg.Inputs.Netwatch,
		"fritz", cfg.Inputs.Fritz,
		"broadcast_interval", cfg.Server.BroadcastInterval,
	)

	st := store.New(cfg.Server.History)
	hub := ws.New(st, cfg.Server.BroadcastInterval)
	an := newAnalyzer(st, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           newServeMux(st, hub, newRegistry(st)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return an.Run(ctx)
	})
	g.Go(func() error {
		// Input paths are fixed for the lifetime of the process; a reload
		// that moves them takes effect for analysis but not for watching.
		inputs := []string{cfg.Inputs.Netwatch, cfg.Inputs.Fritz}
		if err := config.Watch(ctx, cfgPath, inputs, an.Request); err != nil {
			return fmt.Errorf("serve: watch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("netincident serve shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	an.Request(nil)
	return g.Wait()
}

// newRegistry returns a registry with the report collector plus the standard
// Go runtime and process collectors.
func newRegistry(st *store.Store) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		report.NewCollector(st.LatestReport),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newServeMux(st *store.Store, hub *ws.Hub, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st))
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/report.html", func(w http.ResponseWriter, r *http.Request) {
		rep := st.LatestReport()
		if rep == nil {
			http.Error(w, "no analysis available yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.WriteHTML(w, rep); err != nil {
			slog.Error("serve: html report", "err", err)
		}
	})
	return mux
}

// analyzer re-runs the analysis when asked and stores every report.
// Requests arriving while a run is in progress collapse into one follow-up
// run.
type analyzer struct {
	st      *store.Store
	trigger chan struct{}

	mu  sync.Mutex
	cfg *config.Config
}

func newAnalyzer(st *store.Store, cfg *config.Config) *analyzer {
	return &analyzer{st: st, cfg: cfg, trigger: make(chan struct{}, 1)}
}

// Request schedules a run. A non-nil cfg replaces the config used from now
// on; nil keeps the current one. It matches the config.Watch callback.
func (a *analyzer) Request(cfg *config.Config) {
	if cfg != nil {
		a.mu.Lock()
		a.cfg = cfg
		a.mu.Unlock()
	}
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

func (a *analyzer) config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Run performs requested analyses until ctx is cancelled. Failed runs are
// logged and leave the previous report in place.
func (a *analyzer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.trigger:
			if err := a.runOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("serve: analysis failed, keeping previous report", "err", err)
			}
		}
	}
}

func (a *analyzer) runOnce(ctx context.Context) error {
	cfg := a.config()
	in, err := cfg.AnalyzeInputs()
	if err != nil {
		return err
	}
	rep, err := analyze.RunFiles(ctx, in, cfg.AnalyzeOptions())
	if err != nil {
		return err
	}
	e := a.st.Put(rep)
	slog.Info("serve: report stored", "seq", e.Seq, "incidents", len(rep.Incidents))
	return nil
}
