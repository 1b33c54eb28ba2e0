// Package daemon keeps the vault continuously indexed: a periodic schedule
// and a filesystem watcher both funnel into one serialized engine run loop,
// with Prometheus metrics served over HTTP.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/vaultindex/internal/config"
	"git.home.luguber.info/inful/vaultindex/internal/engine"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/metrics"
	"git.home.luguber.info/inful/vaultindex/internal/runledger"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// Daemon owns the long-running indexing loop.
type Daemon struct {
	cfg      *config.Config
	registry *prom.Registry
	trigger  chan struct{}
}

// New creates a daemon for the given configuration.
func New(cfg *config.Config) *Daemon {
	return &Daemon{
		cfg:      cfg,
		registry: prom.NewRegistry(),
		trigger:  make(chan struct{}, 1),
	}
}

// RequestRun asks for a reindex. Requests arriving while a run is in flight
// coalesce into at most one pending run.
func (d *Daemon) RequestRun() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled. One engine run happens immediately on
// startup; afterwards the scheduler and the vault watcher request further
// runs, all executed serially on this goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	v, err := vault.Open(d.cfg.Vault.Root)
	if err != nil {
		return err
	}

	ledger, err := runledger.NewSQLiteStore(d.cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	recorder := metrics.NewPrometheusRecorder(d.registry)
	eng := engine.New(d.cfg, recorder, ledger)

	scheduler, err := NewScheduler()
	if err != nil {
		return err
	}
	if _, err := scheduler.ScheduleReindex(d.cfg.Daemon.Interval.Std(), d.RequestRun); err != nil {
		return err
	}
	scheduler.Start()
	defer func() { _ = scheduler.Stop() }()

	watcher, err := NewVaultWatcher(v, d.cfg.Index.HomepageSuffix, d.cfg.Daemon.Debounce.Std(), d.RequestRun)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	server := d.metricsServer()
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Daemon started",
		logfields.Vault(d.cfg.Vault.Root),
		slog.String("listen", d.cfg.Daemon.Listen),
		slog.Duration("interval", d.cfg.Daemon.Interval.Std()))

	d.RequestRun()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon stopping")
			return nil
		case <-d.trigger:
			// The run rewrites banners and homepages; without the pause
			// those writes would debounce into the next run, forever.
			watcher.Pause()
			if err := eng.Run(ctx); err != nil {
				slog.Error("Indexing run failed", logfields.Error(err))
			}
			watcher.Resume()
			select {
			case <-d.trigger:
			default:
			}
		}
	}
}

func (d *Daemon) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(d.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return &http.Server{
		Addr:              d.cfg.Daemon.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
