package monitor

import (
	"context"
	"fmt"
	"github.com/clambin/tstat-exporter/internal/collector"
	"github.com/clambin/tstat-exporter/internal/health"
	"github.com/clambin/tstat-exporter/internal/poller"
	"github.com/clambin/tstat-exporter/internal/sink/influx"
	"github.com/clambin/tstat-exporter/internal/sink/mqtt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Task interface {
	Run(context.Context) error
}

type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Run connects to the configured sinks and runs all monitor tasks until ctx is canceled or one of the tasks fails.
func Run(ctx context.Context, cfg *viper.Viper, thermostat poller.Thermostat, registry Registry, l *slog.Logger) error {
	var publisher mqtt.Publisher
	if url := cfg.GetString("mqtt.url"); url != "" {
		client, err := mqtt.Connect(url, cfg.GetString("mqtt.clientId"), cfg.GetString("mqtt.username"), cfg.GetString("mqtt.password"))
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		publisher = client
	}

	var writer influx.Writer
	if url := cfg.GetString("influx.url"); url != "" {
		client, err := influx.Connect(ctx, url, cfg.GetString("influx.token"))
		if err != nil {
			return err
		}
		defer client.Close()
		writer = client.WriteAPIBlocking(cfg.GetString("influx.org"), cfg.GetString("influx.bucket"))
	}

	tasks, err := makeTasks(cfg, thermostat, publisher, writer, registry, l)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task.Run(ctx) })
	}
	return g.Wait()
}

func makeTasks(cfg *viper.Viper, thermostat poller.Thermostat, publisher mqtt.Publisher, writer influx.Writer, registry Registry, l *slog.Logger) ([]Task, error) {
	var tasks []Task

	// Poller
	interval := cfg.GetDuration("poller.interval")
	if interval <= 0 {
		return nil, fmt.Errorf("invalid poller.interval %q: must be positive", cfg.GetString("poller.interval"))
	}
	p := poller.New(thermostat, interval, cfg.GetStringSlice("poller.keys"), l.With("component", "poller"))
	// poll as soon as the poller starts, rather than after the first interval
	p.Refresh()
	tasks = append(tasks, p)

	// Collector
	coll := &collector.Collector{Poller: p, Logger: l.With("component", "collector")}
	registry.MustRegister(coll)
	tasks = append(tasks, coll)

	// Prometheus Server
	tasks = append(tasks, newHTTPServer(cfg.GetString("exporter.addr"), "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Health Endpoint
	h := health.New(p, 3*interval, l.With("component", "health"))
	tasks = append(tasks, h, newHTTPServer(cfg.GetString("health.addr"), "/health", h))

	// Sinks
	if publisher != nil {
		tasks = append(tasks, &mqtt.Sink{
			Poller:    p,
			Publisher: publisher,
			Prefix:    cfg.GetString("mqtt.prefix"),
			QoS:       1,
			Logger:    l.With("component", "mqtt"),
		})
	}
	if writer != nil {
		tasks = append(tasks, &influx.Sink{
			Poller:     p,
			Writer:     writer,
			Thermostat: cfg.GetString("tstat.address"),
			Logger:     l.With("component", "influx"),
		})
	}

	return tasks, nil
}

var _ Task = httpServer{}

type httpServer struct {
	server *http.Server
}

func newHTTPServer(addr string, pattern string, handler http.Handler) httpServer {
	m := http.NewServeMux()
	m.Handle(pattern, handler)
	return httpServer{server: &http.Server{Addr: addr, Handler: m}}
}

func (s httpServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server %s: %w", s.server.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server %s: shutdown: %w", s.server.Addr, err)
	}
	return nil
}
