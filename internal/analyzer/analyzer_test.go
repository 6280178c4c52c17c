package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/report"
	"github.com/shaiso/Analysis/internal/scenario"
	"github.com/shaiso/Analysis/internal/sinks"
)

const runLog = `{"run_number": 3}
{"event": "Task successful", "task": "<OpenChannelTask: {'from': 0, 'to': 1, 'total_deposit': 1000}>", "runtime": 2.25, "timestamp": "2020-01-28 12:27:10.250000"}
{"event": "Task successful", "task": "<TransferTask: {'from': 0, 'to': 1, 'amount': 10, 'identifier': 1580214432}>", "runtime": 0.5, "timestamp": "2020-01-28 12:27:13.000000"}
{"event": "Task successful", "task": "<TransferTask: {'from': 1, 'to': 0, 'amount': 5, 'identifier': 1580214433}>", "runtime": 1.5, "timestamp": "2020-01-28 12:27:15.000000"}
{"event": "Task successful", "task": "<WaitTask: 10>", "runtime": 10.0, "timestamp": "2020-01-28 12:27:25.000000"}
`

// recordingSink запоминает опубликованные анализы.
type recordingSink struct {
	mu       sync.Mutex
	analyses []*domain.Analysis
	err      error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(ctx context.Context, a *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, a)
	return s.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newAnalyzer(t *testing.T, sink sinks.Sink) (*Analyzer, string) {
	t.Helper()
	registry := sinks.NewRegistry()
	if sink != nil {
		registry.Register(sink)
	}
	textfile := filepath.Join(t.TempDir(), "nodexporter.txt")
	return New(Config{
		Sinks:        registry,
		TextfilePath: textfile,
		Clients:      []domain.ClientVersion{{Implementation: "raiden", Version: "v2.0.0"}},
	}), textfile
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	logfile := filepath.Join(dir, "scenario-player-run_mfee1_fee_1583931018.log")
	writeFile(t, logfile, runLog)
	writeFile(t, filepath.Join(dir, "node_3_001", "raiden-debug.log"), "identifier=1580214432")
	writeFile(t, filepath.Join(dir, "node_3_002", "raiden-debug.log"), "identifier=1580214432")

	sink := &recordingSink{}
	a, textfile := newAnalyzer(t, sink)

	analysis, err := a.Run(context.Background(), logfile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if analysis.Status != domain.AnalysisStatusSucceeded {
		t.Fatalf("expected SUCCEEDED, got %s (%s)", analysis.Status, analysis.Error)
	}
	if analysis.Scenario != "mfee1_fee" {
		t.Errorf("unexpected scenario: %s", analysis.Scenario)
	}
	if analysis.RunNumber != "3" {
		t.Errorf("unexpected run number: %s", analysis.RunNumber)
	}
	// WaitTask не попадает в анализ
	if analysis.Tasks != 3 {
		t.Errorf("expected 3 tasks, got %d", analysis.Tasks)
	}

	wantDir := filepath.Join(dir, "analysis_3")
	if analysis.OutputDir != wantDir {
		t.Errorf("unexpected output dir: %s", analysis.OutputDir)
	}
	for _, name := range []string{report.GanttFilename, report.CSVFilename, report.StatisticsFilename, report.RawStatsFilename} {
		if _, err := os.Stat(filepath.Join(wantDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	// OpenChannelTask, TransferTask, TransferTask(2 nodes)
	if len(analysis.RawStats) != 3 {
		t.Errorf("expected 3 stat groups, got %d", len(analysis.RawStats))
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `scenario="mfee1_fee"`) {
		t.Errorf("textfile has no scenario label:\n%s", data)
	}

	if len(sink.analyses) != 1 || sink.analyses[0] != analysis {
		t.Errorf("expected analysis to be published once, got %d", len(sink.analyses))
	}
	if analysis.FinishedAt == nil {
		t.Error("FinishedAt is not set")
	}
}

func TestRun_RelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scenario-player-run_mfee1_1.log"), runLog)
	t.Chdir(dir)

	sink := &recordingSink{}
	a, _ := newAnalyzer(t, sink)

	analysis, err := a.Run(context.Background(), "scenario-player-run_mfee1_1.log")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.analyses) != 1 {
		t.Fatalf("expected analysis to be published once, got %d", len(sink.analyses))
	}

	stored := sink.analyses[0]
	if !filepath.IsAbs(stored.Logfile) {
		t.Errorf("stored logfile is not absolute: %s", stored.Logfile)
	}
	if !filepath.IsAbs(stored.OutputDir) {
		t.Errorf("stored output dir is not absolute: %s", stored.OutputDir)
	}
	if want := filepath.Join(filepath.Dir(stored.Logfile), "analysis_3"); analysis.OutputDir != want {
		t.Errorf("output dir = %s, want %s", analysis.OutputDir, want)
	}
	if analysis.Scenario != "mfee1" {
		t.Errorf("unexpected scenario: %s", analysis.Scenario)
	}
}

func TestRun_Empty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no run number", `{"event": "Task successful", "task": "<TransferTask: {'from': 0}>", "runtime": 1.0, "timestamp": "2020-01-28 12:27:13.000000"}` + "\n"},
		{"no tasks", `{"run_number": 5}` + "\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			logfile := filepath.Join(dir, "scenario-player-run_bf1_1583931018.log")
			writeFile(t, logfile, tt.content)

			sink := &recordingSink{}
			a, textfile := newAnalyzer(t, sink)

			analysis, err := a.Run(context.Background(), logfile)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if analysis.Status != domain.AnalysisStatusEmpty {
				t.Errorf("expected EMPTY, got %s", analysis.Status)
			}
			if analysis.OutputDir != "" {
				t.Errorf("expected no output dir, got %s", analysis.OutputDir)
			}
			if len(sink.analyses) != 1 {
				t.Errorf("expected sink to be called once, got %d", len(sink.analyses))
			}
			if _, err := os.Stat(textfile); !os.IsNotExist(err) {
				t.Error("textfile should not be written for empty log")
			}

			matches, _ := filepath.Glob(filepath.Join(dir, "analysis_*"))
			if len(matches) != 0 {
				t.Errorf("unexpected output dirs: %v", matches)
			}
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	sink := &recordingSink{}
	a, _ := newAnalyzer(t, sink)

	analysis, err := a.Run(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	if !errors.Is(err, scenario.ErrOpenLog) {
		t.Fatalf("expected ErrOpenLog, got %v", err)
	}
	if analysis.Status != domain.AnalysisStatusFailed {
		t.Errorf("expected FAILED, got %s", analysis.Status)
	}
	if analysis.Error == "" {
		t.Error("expected error message")
	}
	// Упавший анализ тоже публикуется
	if len(sink.analyses) != 1 {
		t.Errorf("expected sink to be called once, got %d", len(sink.analyses))
	}
}

func TestRun_SinkError(t *testing.T) {
	dir := t.TempDir()
	logfile := filepath.Join(dir, "scenario-player-run_mfee1_fee_1583931018.log")
	writeFile(t, logfile, runLog)

	sink := &recordingSink{err: errors.New("webhook is down")}
	a, _ := newAnalyzer(t, sink)

	analysis, err := a.Run(context.Background(), logfile)
	if err == nil {
		t.Fatal("expected sink error")
	}
	if !strings.Contains(err.Error(), "webhook is down") {
		t.Errorf("unexpected error: %v", err)
	}
	// Результат анализа не теряется
	if analysis.Status != domain.AnalysisStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", analysis.Status)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})
	if a.sinks == nil || a.logger == nil {
		t.Error("defaults are not applied")
	}
}
