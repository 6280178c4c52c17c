package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/stats"
	"github.com/shaiso/Analysis/internal/telemetry"
)

// timestampParseLayout — layout для разбора timestamp.
// Дробная часть секунд при разборе принимается любой длины.
const timestampParseLayout = "2006-01-02 15:04:05"

// FillRows строит строки gantt-диаграммы, таблицы и CSV из записей лога.
//
// Запись пропускается, если описание задачи не является YAML-словарём
// (например, WaitTask) или поле task не содержит ":".
func FillRows(ctx context.Context, entries []domain.LogEntry, nodeLogs []string) domain.Rows {
	logger := telemetry.FromContext(ctx)

	rows := domain.Rows{
		Gantt: make([]domain.GanttRow, 0, len(entries)),
		Tasks: make([]domain.TaskRow, 0, len(entries)),
		Table: make([]domain.TableRow, 0, len(entries)),
	}

	for num, entry := range entries {
		taskType, taskDesc, body, ok := parseTask(entry.Raw)
		if !ok {
			continue
		}

		duration, ok := toFloat(entry.Raw["runtime"])
		if !ok {
			logger.Debug("skipping task with non-numeric runtime", "task", taskType, "timestamp", entry.Timestamp)
			continue
		}

		id := num
		if v, ok := entry.Raw["id"]; ok {
			if n, ok := toFloat(v); ok {
				id = int(n)
			}
		}

		nodesInvolved := 0
		if identifier, ok := body["identifier"]; ok {
			nodesInvolved = CountOccurrences(formatIdentifier(identifier), nodeLogs)
		}

		if nodesInvolved > 0 {
			suffix := ""
			if nodesInvolved > 1 {
				suffix = "s"
			}
			taskType = fmt.Sprintf("%s(%d node%s)", taskType, nodesInvolved, suffix)
		}

		body["nodes_involved"] = nodesInvolved
		description := describe(body)

		rows.Gantt = append(rows.Gantt, domain.GanttRow{
			Task:        fmt.Sprintf("%s(#%d)", taskType, id),
			Start:       startTime(entry.Timestamp, duration),
			Finish:      entry.Timestamp,
			Description: description,
		})
		rows.Table = append(rows.Table, domain.TableRow{
			ID:          id,
			Type:        taskType,
			Duration:    duration,
			Description: description,
		})
		rows.Tasks = append(rows.Tasks, domain.TaskRow{
			ID:            id,
			Type:          taskType,
			Duration:      duration,
			NodesInvolved: nodesInvolved,
		})

		logger.Debug("task row",
			"task", fmt.Sprintf("%s(#%d)", taskType, id),
			"description", taskDesc,
			"duration", duration,
		)
	}

	return rows
}

// parseTask разбирает поле task вида "<TransferTask: {'from': 0, 'to': 1}>".
func parseTask(raw map[string]any) (taskType, taskDesc string, body map[string]any, ok bool) {
	task, isString := raw["task"].(string)
	if !isString {
		return "", "", nil, false
	}

	left, right, found := strings.Cut(task, ":")
	if !found {
		return "", "", nil, false
	}

	taskType = strings.TrimSpace(strings.ReplaceAll(left, "<", ""))
	taskDesc = strings.TrimSpace(strings.ReplaceAll(right, ">", ""))

	parsed, err := decodeTaskBody(taskDesc)
	if err != nil {
		return "", "", nil, false
	}

	body, ok = normalize(parsed).(map[string]any)
	if !ok {
		return "", "", nil, false
	}
	return taskType, taskDesc, body, true
}

// normalize приводит ключи YAML-словарей к строкам, чтобы результат
// можно было сериализовать в JSON.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}

// startTime вычисляет время начала задачи: timestamp минус duration.
// Микросекунды округляются к чётному.
// Если timestamp не разбирается, возвращается он сам.
func startTime(timestamp string, duration float64) string {
	finish, err := time.Parse(timestampParseLayout, timestamp)
	if err != nil {
		return timestamp
	}

	whole, frac := math.Modf(duration)
	micros := whole*1e6 + math.RoundToEven(frac*1e6)
	start := finish.Add(-time.Duration(micros) * time.Microsecond)
	return start.Format(domain.LoggerDateLayout)
}

// formatIdentifier приводит identifier к строке так, как он
// печатается в логах нод.
func formatIdentifier(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return stats.FormatFloat(val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(val)
	}
}

// toFloat приводит числовое значение JSON/YAML к float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
