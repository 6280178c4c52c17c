package promfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaiso/Analysis/internal/domain"
)

// Labels — метки summary в порядке объявления.
var Labels = []string{"scenario", "task", "nodes_involved", "implementation", "version"}

// NewRegistry создаёт отдельный registry с summary длительностей задач.
func NewRegistry(rows []domain.TaskRow, scenario string, clients []domain.ClientVersion) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	summary := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "scenario_player",
		Name:      "task_duration_sec",
		Help:      "The duration summary of a certain task",
	}, Labels)
	registry.MustRegister(summary)

	implementation, version := JoinClients(clients)
	for _, r := range rows {
		summary.WithLabelValues(
			scenario,
			TaskName(r.Type),
			strconv.Itoa(r.NodesInvolved),
			implementation,
			version,
		).Observe(r.Duration)
	}
	return registry
}

// WriteTaskDurations записывает summary длительностей задач в path.
// Файл заменяется атомарно.
func WriteTaskDurations(path string, rows []domain.TaskRow, scenario string, clients []domain.ClientVersion) error {
	registry := NewRegistry(rows, scenario, clients)
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write textfile %s: %w", path, err)
	}
	return nil
}

// TaskName возвращает тип задачи без суффикса "(N nodes)".
func TaskName(taskType string) string {
	name, _, _ := strings.Cut(taskType, "(")
	return name
}

// JoinClients склеивает уникальные реализации и версии клиентов через "/".
func JoinClients(clients []domain.ClientVersion) (implementation, version string) {
	impls := make(map[string]struct{})
	versions := make(map[string]struct{})
	for _, c := range clients {
		impls[c.Implementation] = struct{}{}
		versions[c.Version] = struct{}{}
	}
	return joinSorted(impls), joinSorted(versions)
}

func joinSorted(set map[string]struct{}) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, "/")
}
