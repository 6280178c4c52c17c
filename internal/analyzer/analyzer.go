package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/promfile"
	"github.com/shaiso/Analysis/internal/report"
	"github.com/shaiso/Analysis/internal/scenario"
	"github.com/shaiso/Analysis/internal/sinks"
	"github.com/shaiso/Analysis/internal/stats"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// Analyzer анализирует логи сценариев.
// Безопасен для использования из нескольких горутин.
type Analyzer struct {
	sinks        *sinks.Registry
	textfilePath string
	clients      []domain.ClientVersion
	logger       *slog.Logger
}

// Config — конфигурация Analyzer.
type Config struct {
	// Sinks — получатели результата. nil — результат никуда не публикуется.
	Sinks *sinks.Registry

	// TextfilePath — файл для node-exporter. Пустой — файл не пишется.
	TextfilePath string

	// Clients — реализации и версии клиентов для меток метрик.
	Clients []domain.ClientVersion

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Analyzer.
func New(cfg Config) *Analyzer {
	registry := cfg.Sinks
	if registry == nil {
		registry = sinks.NewRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		sinks:        registry,
		textfilePath: cfg.TextfilePath,
		clients:      cfg.Clients,
		logger:       logger,
	}
}

// Run анализирует logfile. Относительный путь приводится к абсолютному.
//
// Результат возвращается всегда, в том числе вместе с ошибкой:
// при ошибке анализа он в статусе FAILED, при ошибке sink'ов —
// в статусе SUCCEEDED или EMPTY.
func (a *Analyzer) Run(ctx context.Context, logfile string) (*domain.Analysis, error) {
	abs, err := filepath.Abs(logfile)
	if err != nil {
		analysis := domain.NewAnalysis(logfile, scenario.ScenarioName(logfile))
		err = fmt.Errorf("resolve logfile %s: %w", logfile, err)
		analysis.MarkFailed(err.Error())
		return analysis, err
	}
	logfile = abs

	analysis := domain.NewAnalysis(logfile, scenario.ScenarioName(logfile))

	logger := telemetry.WithScenario(telemetry.WithLogfile(a.logger, logfile), analysis.Scenario)
	ctx = telemetry.WithLogger(ctx, logger)

	logger.Info("analysis started")

	if err := a.analyze(ctx, analysis); err != nil {
		analysis.MarkFailed(err.Error())
		logger.Error("analysis failed", "error", err)
		telemetry.CaptureError(err, map[string]string{
			"logfile":  filepath.Base(logfile),
			"scenario": analysis.Scenario,
		})
		return analysis, multierr.Append(err, a.finish(ctx, analysis))
	}

	if err := a.finish(ctx, analysis); err != nil {
		return analysis, err
	}
	return analysis, nil
}

// analyze выполняет шаги анализа и переводит analysis в SUCCEEDED или EMPTY.
func (a *Analyzer) analyze(ctx context.Context, analysis *domain.Analysis) error {
	logger := telemetry.FromContext(ctx)

	log, err := scenario.ReadLog(analysis.Logfile)
	if err != nil {
		return err
	}
	if log.Skipped > 0 {
		logger.Warn("skipped malformed log lines", "count", log.Skipped)
	}

	analysis.RunNumber = log.RunNumber
	if log.IsEmpty() {
		logger.Info("nothing to analyze", "entries", len(log.Entries), "has_run_number", log.RunNumber != "")
		analysis.MarkEmpty()
		return nil
	}

	logger = telemetry.WithRunNumber(logger, log.RunNumber)
	ctx = telemetry.WithLogger(ctx, logger)

	logDir := filepath.Dir(analysis.Logfile)
	nodeLogs, err := scenario.OpenNodeLogs(ctx, scenario.NodeLogGlob(logDir, log.RunNumber))
	if err != nil {
		return err
	}
	logger.Debug("node logs loaded", "count", len(nodeLogs))

	rows := scenario.FillRows(ctx, log.Entries, nodeLogs)

	if a.textfilePath != "" {
		if err := promfile.WriteTaskDurations(a.textfilePath, rows.Tasks, analysis.Scenario, a.clients); err != nil {
			return err
		}
	}

	analysis.Stats = stats.Generate(rows.Tasks)
	analysis.RawStats = stats.Raw(analysis.Stats)
	analysis.Tasks = rows.Len()

	outputDir := report.OutputDir(logDir, log.RunNumber)
	if err := report.WriteAll(outputDir, rows, analysis.Stats, analysis.RawStats); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	analysis.OutputDir = outputDir

	analysis.MarkSucceeded()
	return nil
}

// finish учитывает результат в метриках и публикует его во все sink'и.
func (a *Analyzer) finish(ctx context.Context, analysis *domain.Analysis) error {
	logger := telemetry.FromContext(ctx)

	telemetry.AnalysisDuration.Observe(analysis.Duration().Seconds())
	telemetry.AnalysisRuns.WithLabelValues(resultLabel(analysis.Status)).Inc()

	if analysis.Status != domain.AnalysisStatusFailed {
		logger.Info("analysis finished",
			"status", analysis.Status,
			"tasks", analysis.Tasks,
			"output_dir", analysis.OutputDir,
			"duration", analysis.Duration().Round(time.Millisecond),
		)
	}

	if err := a.sinks.PublishAll(ctx, analysis); err != nil {
		telemetry.CaptureError(err, map[string]string{"stage": "sinks"})
		return fmt.Errorf("publish results: %w", err)
	}
	return nil
}

func resultLabel(status domain.AnalysisStatus) string {
	switch status {
	case domain.AnalysisStatusSucceeded:
		return telemetry.ResultSucceeded
	case domain.AnalysisStatusEmpty:
		return telemetry.ResultEmpty
	default:
		return telemetry.ResultFailed
	}
}
