package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/Analysis/internal/config"
)

func testConfig(reportEnabled bool) *config.Config {
	return &config.Config{
		Report: config.ReportConfig{
			Enabled: reportEnabled,
			HookURL: "https://chat.example.org/hooks/",
			Secret:  "secret",
			Include: config.DefaultReportInclude,
		},
		Exporter: config.ExporterConfig{
			TextfilePath:   "/tmp/nodexporter.txt",
			ClientVersions: "raiden=1.2.0",
		},
	}
}

func TestResources_Sinks(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    []string
	}{
		{"report enabled", true, []string{"webhook"}},
		{"report disabled", false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res *Resources
			registry, err := res.Sinks(testConfig(tt.enabled))
			if err != nil {
				t.Fatalf("Sinks: %v", err)
			}
			if diff := cmp.Diff(tt.want, registry.Names()); diff != "" {
				t.Errorf("sinks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_NothingConfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res, err := Open(context.Background(), testConfig(false), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res.Repo != nil || res.Conn != nil || res.Uploader != nil {
		t.Errorf("expected no connections, got %+v", res)
	}
	if err := res.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestFromConfig_InvalidClients(t *testing.T) {
	cfg := testConfig(false)
	cfg.Exporter.ClientVersions = "raiden"

	_, err := FromConfig(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
