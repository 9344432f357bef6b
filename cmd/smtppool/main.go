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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/javi11/smtppool"
	"github.com/javi11/smtppool/internal/api"
	"github.com/javi11/smtppool/internal/config"
)

func main() {
	var (
		configPath string
		sendTest   bool
		to         string
	)

	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")
	pflag.BoolVar(&sendTest, "send-test", false, "Send one test message and exit")
	pflag.StringVar(&to, "to", "", "Recipient of the test message (defaults to sender.test_recipient)")
	pflag.Parse()

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sendTest {
		err = runSendTest(ctx, cfg, logger, to)
	} else {
		err = runServer(ctx, configPath, cfg, logger)
	}

	if err != nil {
		logger.Error("Exiting with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// newPool builds a pool from cfg and optionally connects it up front. Bad
// credentials abort startup; other warmup failures are left to keep-alive.
func newPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (smtppool.SMTPConnectionPool, error) {
	poolCfg, err := cfg.ToPoolConfig(logger)
	if err != nil {
		return nil, err
	}

	pool, err := smtppool.NewConnectionPool(poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if !cfg.Pool.Warmup {
		return pool, nil
	}

	if err := pool.Warmup(ctx); err != nil {
		if smtppool.IsAuthenticationError(err) {
			pool.Quit()

			return nil, fmt.Errorf("warmup: %w", err)
		}

		logger.WarnContext(ctx, "Warmup finished with errors", "error", err)
	}

	return pool, nil
}

func runSendTest(ctx context.Context, cfg *config.Config, logger *slog.Logger, to string) error {
	if to == "" {
		to = cfg.Sender.TestRecipient
	}

	if to == "" {
		return errors.New("no recipient: pass --to or set sender.test_recipient")
	}

	pool, err := newPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Quit()

	if err := pool.Send(ctx, api.TestMessage(cfg.Sender, to)); err != nil {
		return fmt.Errorf("send test message: %w", err)
	}

	logger.InfoContext(ctx, "Test message sent", "to", to, "server", cfg.SMTP.Host)

	return nil
}

func runServer(ctx context.Context, configPath string, cfg *config.Config, logger *slog.Logger) error {
	pool, err := newPool(ctx, cfg, logger)
	if err != nil {
		return err
	}

	svc := newService(configPath, cfg, pool, logger)
	defer svc.Quit()

	gin.SetMode(gin.ReleaseMode)

	router := api.NewRouter(api.NewHandler(svc, logger), logger)

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			smtppool.NewPrometheusCollector(svc, cfg.Metrics.Namespace, nil),
		)

		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	go svc.watchReload(ctx)

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	// Stop taking requests before the pool goes away so in-flight sends finish.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}

	return nil
}
