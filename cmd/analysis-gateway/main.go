// Analysis Gateway — HTTP(S) вход для отчётов и метрик.
//
// Gateway:
//   - Выпускает сертификат через ACME для SERVER_NAME
//   - Проксирует /metrics на node-exporter для адресов из CIDR_ALLOW_METRICS
//   - Отдаёт каталоги analysis_* из DATA_DIR
//   - Предоставляет API анализов, если настроены PostgreSQL и RabbitMQ
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/gateway"
	"github.com/shaiso/Analysis/internal/mq"
	"github.com/shaiso/Analysis/internal/repo"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting analysis-gateway", "version", version)

	// Gateway не публикует отчёты
	cfg, err := config.Load(map[string]any{"report_enabled": false})
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := telemetry.InitSentry(cfg.Sentry.DSN, version); err != nil {
		logger.Warn("sentry disabled", "error", err)
	}
	defer telemetry.FlushSentry(2 * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	nets, err := cfg.Gateway.Networks()
	if err != nil {
		logger.Error("invalid CIDR_ALLOW_METRICS", "error", err)
		os.Exit(1)
	}

	proxy, err := gateway.NewMetricsProxy(cfg.Gateway.NodeExporterURL, logger)
	if err != nil {
		logger.Error("invalid NODE_EXPORTER_URL", "error", err)
		os.Exit(1)
	}

	hcfg := gateway.HandlerConfig{
		DataDir: cfg.Data.Dir,
		Logger:  logger,
	}

	// API анализов — если настроены PostgreSQL и RabbitMQ
	if cfg.Postgres.Enabled() {
		pool, err := repo.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			logger.Warn("database not available, analyses API disabled", "error", err)
		} else {
			defer pool.Close()
			hcfg.Store = repo.NewAnalysisRepo(pool)
			logger.Info("database connected")
		}
	}

	if cfg.RabbitMQ.Enabled() {
		conn, err := mq.NewConnection(cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, analysis requests disabled", "error", err)
		} else {
			defer conn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			hcfg.Publisher = mq.NewPublisher(conn, logger)
		}
	}

	router := gateway.NewRouter(gateway.RoutesConfig{
		ServerName:   cfg.Gateway.ServerName,
		Networks:     nets,
		MetricsProxy: proxy,
		Reports:      gateway.NewReportsHandler(cfg.Data.Dir),
		Handler:      gateway.NewHandler(hcfg),
		Logger:       logger,
	})

	server := gateway.NewServer(gateway.ServerConfig{
		ServerName:   cfg.Gateway.ServerName,
		HTTPAddr:     cfg.Gateway.HTTPAddr,
		HTTPSAddr:    cfg.Gateway.HTTPSAddr,
		ACMECacheDir: cfg.Gateway.ACMECacheDir,
		Handler:      router,
		Logger:       logger,
	})

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("analysis-gateway stopped")
}
