package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/repo"
	"github.com/shaiso/Analysis/internal/report"
)

type fakeStore struct {
	analyses []domain.Analysis
	byFile   map[string]*domain.Analysis
	limit    int
}

func (s *fakeStore) GetByLogfile(ctx context.Context, logfile string) (*domain.Analysis, error) {
	a, ok := s.byFile[logfile]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error) {
	s.limit = limit
	return s.analyses, nil
}

type fakePublisher struct {
	logfiles []string
	err      error
}

func (p *fakePublisher) PublishAnalysisRequested(ctx context.Context, logfile string) error {
	if p.err != nil {
		return p.err
	}
	p.logfiles = append(p.logfiles, logfile)
	return nil
}

// httptest.NewRequest использует RemoteAddr 192.0.2.1:1234.
func testNetworks(t *testing.T, cidrs string) RoutesConfig {
	t.Helper()
	nets, err := config.ParseCIDRs(cidrs)
	if err != nil {
		t.Fatalf("ParseCIDRs: %v", err)
	}
	return RoutesConfig{Networks: nets}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestRouter_Healthz(t *testing.T) {
	cfg := testNetworks(t, "10.0.0.0/8")
	cfg.ServerName = "analysis.example.org"
	router := NewRouter(cfg)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestRouter_HostCheck(t *testing.T) {
	cfg := testNetworks(t, "192.0.2.0/24")
	cfg.ServerName = "analysis.example.org"
	cfg.Handler = NewHandler(HandlerConfig{Store: &fakeStore{}, DataDir: "/data"})
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	rec := serve(router, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign host, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	req.Host = "Analysis.Example.org:443"
	rec = serve(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own host, got %d", rec.Code)
	}
}

func TestRouter_MetricsProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			t.Errorf("unexpected upstream path: %s", r.URL.Path)
		}
		io.WriteString(w, "node_load1 0.5\n")
	}))
	defer upstream.Close()

	proxy, err := NewMetricsProxy(upstream.URL, nil)
	if err != nil {
		t.Fatalf("NewMetricsProxy: %v", err)
	}

	t.Run("allowed", func(t *testing.T) {
		cfg := testNetworks(t, "192.0.2.0/24")
		cfg.MetricsProxy = proxy
		rec := serve(NewRouter(cfg), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "node_load1 0.5") {
			t.Errorf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("denied", func(t *testing.T) {
		cfg := testNetworks(t, "10.0.0.0/8,127.0.0.1")
		cfg.MetricsProxy = proxy
		rec := serve(NewRouter(cfg), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if got := decodeError(t, rec).Code; got != ErrCodeForbidden {
			t.Errorf("expected FORBIDDEN, got %s", got)
		}
	})
}

func TestRouter_MetricsProxyUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	proxy, err := NewMetricsProxy(addr, nil)
	if err != nil {
		t.Fatalf("NewMetricsProxy: %v", err)
	}
	cfg := testNetworks(t, "192.0.2.0/24")
	cfg.MetricsProxy = proxy

	rec := serve(NewRouter(cfg), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != ErrCodeBadGateway {
		t.Errorf("expected BAD_GATEWAY, got %s", got)
	}
}

func TestNewMetricsProxy_InvalidUpstream(t *testing.T) {
	for _, upstream := range []string{"", "localhost:9100", "://bad"} {
		if _, err := NewMetricsProxy(upstream, nil); !errors.Is(err, ErrInvalidUpstream) {
			t.Errorf("NewMetricsProxy(%q): expected ErrInvalidUpstream, got %v", upstream, err)
		}
	}
}

func TestRouter_Reports(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "analysis_7"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "analysis_7", "durations.csv"), []byte("Id,Type,Duration,NodesInvolved\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenario-player-run_pfs1_7.log"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testNetworks(t, "10.0.0.0/8")
	cfg.Reports = NewReportsHandler(dir)
	router := NewRouter(cfg)

	tests := []struct {
		path string
		code int
	}{
		{"/reports/analysis_7/durations.csv", http.StatusOK},
		{"/reports/scenario-player-run_pfs1_7.log", http.StatusNotFound},
		{"/reports/analysis_7/../scenario-player-run_pfs1_7.log", http.StatusMovedPermanently},
		{"/reports/analysis_7/missing.html", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			rec := serve(router, req)
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
			if strings.Contains(rec.Body.String(), "secret") {
				t.Error("scenario log must not be served")
			}
		})
	}
}

func TestHandler_ListAnalyses(t *testing.T) {
	store := &fakeStore{analyses: []domain.Analysis{
		{Logfile: "/data/run_7.log", Scenario: "run", Status: domain.AnalysisStatusSucceeded, OutputDir: "/data/analysis_7"},
		{Logfile: "/data/run_8.log", Scenario: "run", Status: domain.AnalysisStatusEmpty},
	}}
	cfg := testNetworks(t, "192.0.2.0/24")
	cfg.Handler = NewHandler(HandlerConfig{Store: store, DataDir: "/data"})
	router := NewRouter(cfg)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=1000", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.limit != maxListLimit {
		t.Errorf("expected limit to be capped at %d, got %d", maxListLimit, store.limit)
	}

	var resp struct {
		Data  []AnalysisResponse `json:"data"`
		Total int                `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := make([]string, len(resp.Data))
	for i, a := range resp.Data {
		got[i] = a.Status + " " + a.ReportURL
	}
	want := []string{"SUCCEEDED /reports/analysis_7/gantt-overview.html", "EMPTY "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("analyses mismatch (-want +got):\n%s", diff)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
}

func TestHandler_ListAnalyses_InvalidLimit(t *testing.T) {
	h := NewHandler(HandlerConfig{Store: &fakeStore{}, DataDir: "/data"})

	rec := serve(http.HandlerFunc(h.ListAnalyses), httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetAnalysis(t *testing.T) {
	store := &fakeStore{byFile: map[string]*domain.Analysis{
		"/data/run_7.log": {
			Logfile: "/data/run_7.log",
			Status:  domain.AnalysisStatusSucceeded,
			Stats:   []domain.Stat{{Name: "WaitTask", Min: 1, Max: 1, Mean: 1, Median: 1, P95: 1, Count: 1}},
		},
	}}
	h := NewHandler(HandlerConfig{Store: store, DataDir: "/data"})

	rec := serve(http.HandlerFunc(h.GetAnalysis), httptest.NewRequest(http.MethodGet, "/api/v1/analyses/lookup?logfile=run_7.log", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data AnalysisResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Stats) != 1 || resp.Data.Stats[0].Name != "WaitTask" {
		t.Errorf("expected WaitTask stats, got %+v", resp.Data.Stats)
	}

	rec = serve(http.HandlerFunc(h.GetAnalysis), httptest.NewRequest(http.MethodGet, "/api/v1/analyses/lookup?logfile=run_9.log", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown log, got %d", rec.Code)
	}
}

func TestHandler_CreateAnalysis(t *testing.T) {
	pub := &fakePublisher{}
	h := NewHandler(HandlerConfig{Publisher: pub, DataDir: "/data"})

	body := strings.NewReader(`{"logfile":"scenario-player-run_pfs1_7.log"}`)
	rec := serve(http.HandlerFunc(h.CreateAnalysis), httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff([]string{"/data/scenario-player-run_pfs1_7.log"}, pub.logfiles); diff != "" {
		t.Errorf("published logfiles mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_CreateAnalysis_DotPrefixedName(t *testing.T) {
	pub := &fakePublisher{}
	h := NewHandler(HandlerConfig{Publisher: pub, DataDir: "/data"})

	body := strings.NewReader(`{"logfile":"..hidden.log"}`)
	rec := serve(http.HandlerFunc(h.CreateAnalysis), httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff([]string{"/data/..hidden.log"}, pub.logfiles); diff != "" {
		t.Errorf("published logfiles mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ReportURL(t *testing.T) {
	h := NewHandler(HandlerConfig{DataDir: "/data"})

	tests := []struct {
		outputDir string
		want      string
	}{
		{"/data/analysis_3", "/reports/analysis_3/" + report.GanttFilename},
		{"/data/..runs/analysis_3", "/reports/..runs/analysis_3/" + report.GanttFilename},
		{"/other/analysis_3", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := h.reportURL(domain.Analysis{OutputDir: tt.outputDir}); got != tt.want {
			t.Errorf("reportURL(%q) = %q, want %q", tt.outputDir, got, tt.want)
		}
	}
}

func TestHandler_CreateAnalysis_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty logfile", `{"logfile":""}`},
		{"relative escape", `{"logfile":"../etc/passwd"}`},
		{"absolute outside", `{"logfile":"/etc/passwd"}`},
		{"data dir itself", `{"logfile":"/data"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			h := NewHandler(HandlerConfig{Publisher: pub, DataDir: "/data"})

			rec := serve(http.HandlerFunc(h.CreateAnalysis), httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if len(pub.logfiles) != 0 {
				t.Errorf("nothing should be published, got %v", pub.logfiles)
			}
		})
	}
}

func TestHandler_CreateAnalysis_PublishError(t *testing.T) {
	h := NewHandler(HandlerConfig{Publisher: &fakePublisher{err: errors.New("channel closed")}, DataDir: "/data"})

	rec := serve(http.HandlerFunc(h.CreateAnalysis), httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(`{"logfile":"run.log"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHandler_Unavailable(t *testing.T) {
	h := NewHandler(HandlerConfig{DataDir: "/data"})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		req     *http.Request
	}{
		{"list", h.ListAnalyses, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)},
		{"lookup", h.GetAnalysis, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/lookup?logfile=run.log", nil)},
		{"create", h.CreateAnalysis, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(`{"logfile":"run.log"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.handler, tt.req)
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("expected 503, got %d", rec.Code)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
