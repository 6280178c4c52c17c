package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/mq"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// Default configuration values.
const (
	defaultSchedule     = "@every 5m"
	defaultPattern      = "scenario-player-run_*.log*"
	defaultTickInterval = time.Second
)

// Runner выполняет анализ лога.
// Реализуется analyzer.Analyzer.
type Runner interface {
	Run(ctx context.Context, logfile string) (*domain.Analysis, error)
}

// Store сообщает, анализировался ли лог раньше.
// Реализуется repo.AnalysisRepo.
type Store interface {
	ExistsByLogfile(ctx context.Context, logfile string) (bool, error)
}

// Watcher находит новые логи сценариев и запускает их анализ.
type Watcher struct {
	dir          string
	pattern      string
	settle       time.Duration
	tickInterval time.Duration
	schedule     cron.Schedule

	runner Runner
	store  Store
	conn   *mq.Connection

	// pending — файл → время последнего изменения
	pending   map[string]time.Time
	processed map[string]struct{}
	mu        sync.Mutex

	consumer *mq.Consumer
	notify   *fsnotify.Watcher

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Watcher.
type Config struct {
	// Dir — каталог с логами.
	Dir string

	// Pattern — glob-шаблон имени лога (default: scenario-player-run_*.log*).
	Pattern string

	// Schedule — расписание сканирования каталога (default: @every 5m).
	Schedule string

	// Settle — сколько файл должен не меняться перед анализом.
	// 0 — анализировать сразу.
	Settle time.Duration

	// TickInterval — как часто проверять готовность файлов (default: 1s).
	TickInterval time.Duration

	// Runner — анализатор (обязательно).
	Runner Runner

	// Store — хранилище анализов (опционально).
	Store Store

	// Conn — соединение с RabbitMQ для запросов на анализ (опционально).
	Conn *mq.Connection

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Watcher.
func New(cfg Config) (*Watcher, error) {
	spec := cfg.Schedule
	if spec == "" {
		spec = defaultSchedule
	}
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}

	pattern := cfg.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}

	settle := max(cfg.Settle, 0)

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		dir:          cfg.Dir,
		pattern:      pattern,
		settle:       settle,
		tickInterval: tickInterval,
		schedule:     schedule,
		runner:       cfg.Runner,
		store:        cfg.Store,
		conn:         cfg.Conn,
		pending:      make(map[string]time.Time),
		processed:    make(map[string]struct{}),
		logger:       logger.With("component", "watcher"),
	}, nil
}

// Start запускает Watcher.
//
// Запускает:
//   - обработку событий fsnotify
//   - сканирование каталога по расписанию
//   - анализ файлов, которые перестали меняться
//   - consumer для analysis.requested (если задан Conn)
func (w *Watcher) Start(ctx context.Context) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := notify.Add(w.dir); err != nil {
		notify.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.notify = notify

	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting watcher",
		"dir", w.dir,
		"pattern", w.pattern,
		"settle", w.settle,
	)

	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		w.eventLoop(ctx)
	}()
	go func() {
		defer w.wg.Done()
		w.scanLoop(ctx)
	}()
	go func() {
		defer w.wg.Done()
		w.processLoop(ctx)
	}()

	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:   mq.QueueRequested,
			Handler: w.handleRequested,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("request consumer error", "error", err)
			}
		}()
	}

	w.logger.Info("watcher started")
	return nil
}

// Stop останавливает Watcher и дожидается текущего анализа.
func (w *Watcher) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping watcher...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()

	if w.notify != nil {
		w.notify.Close()
	}

	w.logger.Info("watcher stopped")
}

// IsStopped проверяет, остановлен ли Watcher.
func (w *Watcher) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// eventLoop отмечает созданные и изменённые логи.
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.notify.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if w.matches(event.Name) {
				w.touch(event.Name, time.Now())
			}
		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// scanLoop сканирует каталог сразу и далее по расписанию.
func (w *Watcher) scanLoop(ctx context.Context) {
	w.scan()

	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			w.scan()
		}
	}
}

// processLoop периодически анализирует готовые файлы.
func (w *Watcher) processLoop(ctx context.Context) {
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processReady(ctx, time.Now())
		}
	}
}

// scan добавляет в pending все подходящие файлы каталога.
// Время изменения берётся из файловой системы, поэтому давно
// дописанные логи готовы к анализу сразу.
func (w *Watcher) scan() {
	matches, err := filepath.Glob(filepath.Join(w.dir, w.pattern))
	if err != nil {
		w.logger.Error("scan failed", "error", err)
		return
	}

	var found int
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if w.touch(path, info.ModTime()) {
			found++
		}
	}

	if found > 0 {
		w.logger.Debug("scan found new logs", "count", found)
	}
}

// matches проверяет, подходит ли имя файла под шаблон.
func (w *Watcher) matches(path string) bool {
	ok, _ := filepath.Match(w.pattern, filepath.Base(path))
	return ok
}

// touch запоминает время изменения файла.
// Возвращает false, если файл уже обработан.
func (w *Watcher) touch(path string, modTime time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, done := w.processed[path]; done {
		return false
	}
	if last, ok := w.pending[path]; !ok || modTime.After(last) {
		w.pending[path] = modTime
	}
	return true
}

// ready забирает из pending файлы, не менявшиеся дольше settle,
// и помечает их обработанными.
func (w *Watcher) ready(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, modTime := range w.pending {
		if now.Sub(modTime) < w.settle {
			continue
		}
		paths = append(paths, path)
		delete(w.pending, path)
		w.processed[path] = struct{}{}
	}
	sort.Strings(paths)
	return paths
}

// processReady анализирует готовые файлы по очереди.
func (w *Watcher) processReady(ctx context.Context, now time.Time) {
	for _, path := range w.ready(now) {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	}
}

// process анализирует один файл, если он ещё не сохранён в хранилище.
func (w *Watcher) process(ctx context.Context, path string) {
	logger := w.logger.With("logfile", path)

	if w.store != nil {
		exists, err := w.store.ExistsByLogfile(ctx, path)
		if err != nil {
			logger.Warn("failed to check stored analysis", "error", err)
		} else if exists {
			logger.Debug("already analyzed, skipping")
			telemetry.WatcherFiles.WithLabelValues(telemetry.ResultSkipped).Inc()
			return
		}
	}

	w.analyze(ctx, path)
}

// analyze запускает анализ и учитывает результат в метрике.
func (w *Watcher) analyze(ctx context.Context, path string) (*domain.Analysis, error) {
	analysis, err := w.runner.Run(ctx, path)
	if err != nil {
		w.logger.Error("analysis finished with error", "logfile", path, "error", err)
	}

	result := telemetry.ResultFailed
	if analysis != nil {
		switch analysis.Status {
		case domain.AnalysisStatusSucceeded:
			result = telemetry.ResultSucceeded
		case domain.AnalysisStatusEmpty:
			result = telemetry.ResultEmpty
		}
	}
	telemetry.WatcherFiles.WithLabelValues(result).Inc()

	return analysis, err
}

// markProcessed исключает файл из pending.
func (w *Watcher) markProcessed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, path)
	w.processed[path] = struct{}{}
}

// Processed возвращает количество обработанных файлов.
func (w *Watcher) Processed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.processed)
}
