// Analysis — анализ логов scenario-player.
//
// Точка входа контейнера анализа: строит gantt-диаграмму, CSV,
// статистику и textfile для node-exporter, затем публикует отчёт.
//
// Использование:
//
//	analysis [--json] [--api-url URL] <command> [flags]
//
// Команды:
//
//	analyze   Полный анализ логов
//	stats     Статистика без записи отчёта
//	enqueue   Постановка логов в очередь watcher'а
//	analyses  Просмотр результатов через gateway
//	version   Версия
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Analysis/internal/cli"
	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Логи в stderr: stdout остаётся для данных
	logger := telemetry.SetupLoggerTo(os.Stderr)
	defer telemetry.FlushSentry(2 * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "analysis",
		Short:         "Raiden scenario-player log analysis",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Gateway API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }
	loadFn := func(overrides map[string]any) (*config.Config, error) {
		cfg, err := config.Load(overrides)
		if err != nil {
			return nil, err
		}
		if err := telemetry.InitSentry(cfg.Sentry.DSN, version); err != nil {
			logger.Warn("sentry disabled", "error", err)
		}
		return cfg, nil
	}

	rootCmd.AddCommand(
		cli.NewAnalyzeCmd(loadFn, outputFn, logger),
		cli.NewStatsCmd(outputFn),
		cli.NewEnqueueCmd(loadFn, outputFn, logger),
		cli.NewAnalysesCmd(clientFn, outputFn),
		cli.NewVersionCmd(version),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
