package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaiso/Analysis/internal/domain"
)

func TestPrefix(t *testing.T) {
	a := domain.NewAnalysis("/data/run.log", "mfee1")
	a.RunNumber = "4"

	if got := Prefix(a); got != "mfee1/4" {
		t.Errorf("unexpected prefix: %s", got)
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("mfee1/4", filepath.Join("sub", "raw_stats.json")); got != "mfee1/4/sub/raw_stats.json" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"durations.csv", "text/csv"},
		{"raw_stats.json", "application/json"},
		{"gantt-overview.html", "text/html"},
		{"blob", "application/octet-stream"},
	}

	for _, tt := range tests {
		got := ContentType(tt.name)
		// mime может добавить "; charset=utf-8"
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"durations.csv", "raw_stats.json", filepath.Join("sub", "extra.txt")} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	want := []string{"durations.csv", "raw_stats.json", filepath.Join("sub", "extra.txt")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestListFiles_Missing(t *testing.T) {
	if _, err := ListFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
}
