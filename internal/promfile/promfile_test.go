package promfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shaiso/Analysis/internal/domain"
)

func TestTaskName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TransferTask(2 nodes)", "TransferTask"},
		{"DepositTask", "DepositTask"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TaskName(tt.in); got != tt.want {
			t.Errorf("TaskName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinClients(t *testing.T) {
	clients := []domain.ClientVersion{
		{Implementation: "raiden", Version: "v2.0.0"},
		{Implementation: "light-client", Version: "v1.1.0"},
		{Implementation: "raiden", Version: "v2.0.0"},
	}

	impl, version := JoinClients(clients)
	if impl != "light-client/raiden" {
		t.Errorf("unexpected implementation: %s", impl)
	}
	if version != "v1.1.0/v2.0.0" {
		t.Errorf("unexpected version: %s", version)
	}

	impl, version = JoinClients(nil)
	if impl != "" || version != "" {
		t.Errorf("expected empty labels, got %q %q", impl, version)
	}
}

func TestNewRegistry(t *testing.T) {
	rows := []domain.TaskRow{
		{ID: 0, Type: "TransferTask(2 nodes)", Duration: 1.5, NodesInvolved: 2},
		{ID: 1, Type: "TransferTask(2 nodes)", Duration: 0.5, NodesInvolved: 2},
		{ID: 2, Type: "DepositTask", Duration: 3},
	}
	clients := []domain.ClientVersion{{Implementation: "raiden", Version: "v2.0.0"}}

	registry := NewRegistry(rows, "mfee1", clients)

	// Две серии: TransferTask/2 и DepositTask/0
	count, err := testutil.GatherAndCount(registry, "scenario_player_task_duration_sec")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 series, got %d", count)
	}

	expected := `
# HELP scenario_player_task_duration_sec The duration summary of a certain task
# TYPE scenario_player_task_duration_sec summary
scenario_player_task_duration_sec_sum{implementation="raiden",nodes_involved="0",scenario="mfee1",task="DepositTask",version="v2.0.0"} 3
scenario_player_task_duration_sec_count{implementation="raiden",nodes_involved="0",scenario="mfee1",task="DepositTask",version="v2.0.0"} 1
scenario_player_task_duration_sec_sum{implementation="raiden",nodes_involved="2",scenario="mfee1",task="TransferTask",version="v2.0.0"} 2
scenario_player_task_duration_sec_count{implementation="raiden",nodes_involved="2",scenario="mfee1",task="TransferTask",version="v2.0.0"} 2
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "scenario_player_task_duration_sec"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestWriteTaskDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodexporter.txt")
	rows := []domain.TaskRow{{ID: 0, Type: "TransferTask", Duration: 2}}

	if err := WriteTaskDurations(path, rows, "bf1", nil); err != nil {
		t.Fatalf("WriteTaskDurations: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		"# TYPE scenario_player_task_duration_sec summary",
		`scenario="bf1"`,
		`task="TransferTask"`,
		"scenario_player_task_duration_sec_count",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("textfile does not contain %q:\n%s", want, content)
		}
	}
}

func TestWriteTaskDurations_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nodexporter.txt")

	if err := WriteTaskDurations(path, nil, "bf1", nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
