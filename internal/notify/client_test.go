package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/shaiso/Analysis/internal/domain"
)

func TestReportText(t *testing.T) {
	raw := []domain.RawStat{
		{Name: "TransferTask", Min: "1.0", Max: "2.0", Mean: "1.5", Median: "1.5", P95: "1.95", Stdev: "0.5", Count: "2"},
		{Name: "WaitTask", Min: "1.0", Max: "1.0", Mean: "1.0", Median: "1.0", P95: "1.0", Stdev: "0.0", Count: "1"},
	}
	include := regexp.MustCompile(`^(?:^Transfer.*)`)

	got := ReportText("/data/scenario-player-run_mfee1_fee_1.log", raw, include)
	want := "###### Stats for scenario-player-run_mfee1_fee_1.log\n" +
		"name|min|max|mean|median|p95|stdev|count\n" +
		"---|---|---|---|---|---|---|---\n" +
		"TransferTask|1.0|2.0|1.5|1.5|1.95|0.5|2"
	if got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestReportText_NothingMatches(t *testing.T) {
	raw := []domain.RawStat{{Name: "WaitTask"}}
	include := regexp.MustCompile(`^(?:Transfer.*)`)

	got := ReportText("run.log", raw, include)
	if got != "###### Stats for run.log\n" {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestEmptyText(t *testing.T) {
	if got := EmptyText("/logs/run.log.gz"); got != "No output for run.log.gz\n" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestClient_PostEmpty(t *testing.T) {
	var received Message
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/hooks/secret" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/hooks/secret", nil)
	if err := c.PostEmpty(context.Background(), "run.log"); err != nil {
		t.Fatalf("PostEmpty: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("unexpected content type: %s", contentType)
	}
	if received.Text != "No output for run.log\n" {
		t.Errorf("unexpected text: %q", received.Text)
	}
}

func TestClient_PostReport(t *testing.T) {
	var received Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
	}))
	defer srv.Close()

	raw := []domain.RawStat{{Name: "DepositTask", Min: "3.0", Max: "3.0", Mean: "3.0", Median: "3.0", P95: "3.0", Stdev: "0.0", Count: "1"}}

	c := NewClient(srv.URL, nil)
	if err := c.PostReport(context.Background(), "run.log", raw); err != nil {
		t.Fatalf("PostReport: %v", err)
	}

	want := "###### Stats for run.log\n" +
		"name|min|max|mean|median|p95|stdev|count\n" +
		"---|---|---|---|---|---|---|---\n" +
		"DepositTask|3.0|3.0|3.0|3.0|3.0|0.0|1"
	if received.Text != want {
		t.Errorf("unexpected text:\n%s", received.Text)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.PostEmpty(context.Background(), "run.log")
	if !errors.Is(err, ErrWebhookStatus) {
		t.Errorf("expected ErrWebhookStatus, got %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil)
	err := c.PostEmpty(context.Background(), "run.log")
	if !errors.Is(err, ErrWebhookRequest) {
		t.Errorf("expected ErrWebhookRequest, got %v", err)
	}
}
