package domain

import (
	"testing"
	"time"
)

func TestAnalysis_Lifecycle(t *testing.T) {
	a := NewAnalysis("/data/scenario-player-run_pfs1_1583931018.log", "pfs1")

	if a.Status != AnalysisStatusRunning {
		t.Errorf("expected RUNNING, got %s", a.Status)
	}
	if a.IsFinished() {
		t.Error("new analysis should not be finished")
	}
	if a.Duration() != 0 {
		t.Error("unfinished analysis should have zero duration")
	}

	time.Sleep(time.Millisecond)
	a.MarkFailed("boom")

	if !a.IsFinished() {
		t.Error("failed analysis should be finished")
	}
	if a.Error != "boom" {
		t.Errorf("expected error boom, got %q", a.Error)
	}
	if a.Duration() <= 0 {
		t.Error("finished analysis should have positive duration")
	}
}

func TestParseAnalysisStatus(t *testing.T) {
	for _, s := range []AnalysisStatus{AnalysisStatusSucceeded, AnalysisStatusEmpty, AnalysisStatusFailed, AnalysisStatusRunning} {
		if got := ParseAnalysisStatus(s.String()); got != s {
			t.Errorf("parse %s: got %s", s, got)
		}
	}
	if got := ParseAnalysisStatus("garbage"); got != AnalysisStatusRunning {
		t.Errorf("unknown status should parse as RUNNING, got %s", got)
	}
}

func TestRawStat_ValuesFollowKeys(t *testing.T) {
	s := RawStat{Name: "n", Min: "1", Max: "2", Mean: "3", Median: "4", P95: "5", Stdev: "6", Count: "7"}
	values := s.Values()
	if len(values) != len(RawStatKeys) {
		t.Fatalf("expected %d values, got %d", len(RawStatKeys), len(values))
	}
	if values[0] != "n" || values[7] != "7" {
		t.Errorf("unexpected order: %v", values)
	}
}
