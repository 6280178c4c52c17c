// Analysis Watcher — анализирует новые логи сценариев.
//
// Watcher:
//   - Следит за DATA_DIR через fsnotify
//   - Пересканирует каталог по расписанию WATCH_SCHEDULE
//   - Анализирует лог, когда он перестаёт меняться (WATCH_SETTLE)
//   - Принимает запросы на анализ из очереди analysis.requested
//   - Пропускает логи, уже сохранённые в PostgreSQL
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Analysis/internal/analyzer"
	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/telemetry"
	"github.com/shaiso/Analysis/internal/watcher"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting analysis-watcher", "version", version)

	cfg, err := config.Load(nil)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := telemetry.InitSentry(cfg.Sentry.DSN, version); err != nil {
		logger.Warn("sentry disabled", "error", err)
	}
	defer telemetry.FlushSentry(2 * time.Second)

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// PostgreSQL, RabbitMQ, S3 — если настроены
	res, err := analyzer.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer res.Close()

	a, err := analyzer.FromConfig(cfg, res, logger)
	if err != nil {
		logger.Error("failed to create analyzer", "error", err)
		os.Exit(1)
	}

	wcfg := watcher.Config{
		Dir:      cfg.Data.Dir,
		Pattern:  cfg.Watch.Pattern,
		Schedule: cfg.Watch.Schedule,
		Settle:   cfg.Watch.Settle,
		Runner:   a,
		Conn:     res.Conn,
		Logger:   logger,
	}
	if res.Repo != nil {
		wcfg.Store = res.Repo
	}

	w, err := watcher.New(wcfg)
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		if w.IsStopped() {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Watch.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	w.Stop()
	logger.Info("analysis-watcher stopped", "processed", w.Processed())
}
