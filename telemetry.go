package worldmesh

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sasha-s/go-deadlock"
)

// Telemetry owns the optional reporting endpoints: sentry, /metrics and statsview.
type Telemetry struct {
	Registry *prometheus.Registry

	logger      Logger
	sentry      bool
	metrics     *http.Server
	metricsAddr string
	stats       *statsview.ViewManager
}

func StartTelemetry(cfg TelemetryConfig, logger Logger) (*Telemetry, error) {
	t := &Telemetry{Registry: prometheus.NewRegistry(), logger: logger}
	t.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			AttachStacktrace: true,
		}); err != nil {
			return nil, errors.Wrap(err, "sentry init")
		}
		t.sentry = true
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{}))
		ln, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return nil, errors.Wrap(err, "metrics listener")
		}
		t.metricsAddr = ln.Addr().String()
		t.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Infof("Prometheus /metrics on %s", t.metricsAddr)
			if err := t.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Metrics server: %v", err)
			}
		}()
	}

	if cfg.StatsviewAddr != "" {
		// configuration must be set before statsview.New
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.StatsviewAddr))
		t.stats = statsview.New()
		go func() {
			logger.Infof("Statsview on %s", cfg.StatsviewAddr)
			if err := t.stats.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Statsview: %v", err)
			}
		}()
	}
	return t, nil
}

// MetricsAddr is the bound /metrics address, empty when disabled.
func (t *Telemetry) MetricsAddr() string {
	return t.metricsAddr
}

func (t *Telemetry) Close(ctx context.Context) error {
	var err error
	if t.metrics != nil {
		err = t.metrics.Shutdown(ctx)
	}
	if t.stats != nil {
		t.stats.Stop()
	}
	if t.sentry {
		sentry.Flush(2 * time.Second)
	}
	return err
}

// ConfigureLockDetection turns go-deadlock's runtime checks on for debug builds only.
func ConfigureLockDetection(debug bool, logger Logger) {
	deadlock.Opts.Disable = !debug
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
	deadlock.Opts.OnPotentialDeadlock = func() {
		logger.Errorf("Potential deadlock detected, see stderr for lock owners")
		sentry.CaptureMessage("potential deadlock")
	}
}
