package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/postgres"
	"github.com/marcelsud/webhook-debugger/capture/redis"
	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/marcelsud/webhook-debugger/capture/sqlite"
	"github.com/marcelsud/webhook-debugger/config"
	"github.com/marcelsud/webhook-debugger/endpoints"
	"github.com/marcelsud/webhook-debugger/internal/http/chi"
	"github.com/marcelsud/webhook-debugger/metrics"
	"github.com/marcelsud/webhook-debugger/replay"
	"github.com/marcelsud/webhook-debugger/retention"
	flag "github.com/spf13/pflag"
)

const TIMEOUT = 30 * time.Second

/* main is where every package is wired together
 * Imports only go downward: the application imports the business layers, which import storage
 */

func main() {
	configFile := flag.StringP("config", "c", "", "optional config file (defaults to ./.env when present)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("webhook-debugger", httplog.Options{
		JSON:     true,
		LogLevel: cfg.SlogLevel(),
		Concise:  true,
	})
	slog.SetDefault(logger.Logger)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())

	loader := endpoints.NewLoader()
	if err := loader.Load(cfg.EndpointsFile); err != nil {
		return fmt.Errorf("loading endpoints: %w", err)
	}
	logger.Info("endpoints loaded", "file", cfg.EndpointsFile, "count", len(loader.List()))
	go reloadOnHangup(ctx, loader, cfg.EndpointsFile, logger.Logger)

	var exporter *metrics.OTelExporter
	if cfg.MetricsEnabled {
		exporter, err = metrics.NewOTelExporter(repo)
		if err != nil {
			return fmt.Errorf("creating metrics exporter: %w", err)
		}
		defer exporter.Shutdown(context.Background())
	}

	captureOpts := []capture.Option{
		capture.WithVerifier(signature.NewVerifier()),
		capture.WithLogger(logger.Logger),
		capture.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	replayOpts := []replay.Option{
		replay.WithTimeout(cfg.ReplayTimeout),
		replay.WithLogger(logger.Logger),
	}
	if cfg.ReplayBlockPrivate {
		replayOpts = append(replayOpts, replay.WithPrivateNetworkGuard())
	}
	routerOpts := chi.Options{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.DashboardJWTSecret,
	}
	if exporter != nil {
		captureOpts = append(captureOpts, capture.WithObserver(exporter))
		replayOpts = append(replayOpts, replay.WithObserver(exporter))
		routerOpts.Metrics = exporter
	}

	captures := capture.NewService(repo, loader, captureOpts...)
	replayer := replay.NewEngine(repo, replayOpts...)

	janitor, err := retention.NewJanitor(repo, cfg.Retention(), cfg.CleanupSchedule,
		retention.WithLogger(logger.Logger),
	)
	if err != nil {
		return err
	}
	janitor.Start(ctx)
	defer janitor.Stop()

	srv := &http.Server{
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + cfg.ReplayTimeout,
		Addr:         ":" + cfg.Port,
		Handler:      chi.Handlers(ctx, captures, replayer, loader, routerOpts),
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)

	logger.Info("listening", "port", cfg.Port, "storage", cfg.StorageDriver)
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errShutdown
}

func openRepository(ctx context.Context, cfg *config.Config) (capture.Repository, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.DriverPostgres:
		return postgres.Connect(ctx, cfg.PostgresDSN)
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// reloadOnHangup re-reads the endpoints file on SIGHUP; a bad file keeps the current set
func reloadOnHangup(ctx context.Context, loader *endpoints.Loader, path string, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := loader.Load(path); err != nil {
				logger.Error("reloading endpoints", "file", path, "error", err)
				continue
			}
			logger.Info("endpoints reloaded", "file", path, "count", len(loader.List()))
		}
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		slog.Info("shutting down server")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
