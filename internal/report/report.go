package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/stats"
)

// Имена файлов в каталоге результата.
const (
	GanttFilename      = "gantt-overview.html"
	CSVFilename        = "durations.csv"
	StatisticsFilename = "statistics.html"
	RawStatsFilename   = "raw_stats.json"
)

// Размеры gantt-диаграммы.
const (
	ganttTitle  = "Raiden Analysis"
	ganttWidth  = 1680
	ganttHeight = 928
)

// OutputDir возвращает каталог результата для прогона runNumber.
func OutputDir(logDir, runNumber string) string {
	return filepath.Join(logDir, "analysis_"+runNumber)
}

// WriteAll создаёт dir и записывает в него все файлы результата.
func WriteAll(dir string, rows domain.Rows, st []domain.Stat, raw []domain.RawStat) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreateOutput, dir, err)
	}

	if err := WriteGantt(dir, rows); err != nil {
		return err
	}
	if err := WriteCSV(dir, rows.Tasks); err != nil {
		return err
	}
	if err := WriteStatistics(dir, st); err != nil {
		return err
	}
	return WriteRawStats(dir, raw)
}

// ganttTrace — одна полоса gantt-диаграммы в формате plotly.
type ganttTrace struct {
	X         [2]string `json:"x"`
	Y         [2]string `json:"y"`
	Text      string    `json:"text"`
	HoverInfo string    `json:"hoverinfo"`
	Mode      string    `json:"mode"`
	Line      traceLine `json:"line"`
	Name      string    `json:"name"`
}

type traceLine struct {
	Width int `json:"width"`
}

type ganttPage struct {
	Title  string
	Width  int
	Height int
	Traces []ganttTrace
	Tasks  []domain.TableRow
}

// WriteGantt записывает gantt-overview.html.
func WriteGantt(dir string, rows domain.Rows) error {
	traces := make([]ganttTrace, 0, len(rows.Gantt))
	for _, r := range rows.Gantt {
		traces = append(traces, ganttTrace{
			X:         [2]string{r.Start, r.Finish},
			Y:         [2]string{r.Task, r.Task},
			Text:      r.Description,
			HoverInfo: "text+x",
			Mode:      "lines",
			Line:      traceLine{Width: 20},
			Name:      r.Task,
		})
	}

	page := ganttPage{
		Title:  ganttTitle,
		Width:  ganttWidth,
		Height: ganttHeight,
		Traces: traces,
		Tasks:  rows.Table,
	}
	return render(filepath.Join(dir, GanttFilename), "gantt.html", page)
}

// WriteCSV записывает durations.csv.
func WriteCSV(dir string, tasks []domain.TaskRow) error {
	path := filepath.Join(dir, CSVFilename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreateOutput, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Id", "Type", "Duration", "NodesInvolved"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		record := []string{
			strconv.Itoa(t.ID),
			t.Type,
			stats.FormatFloat(t.Duration),
			strconv.Itoa(t.NodesInvolved),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

type statisticsPage struct {
	Title string
	Stats []domain.Stat
}

// WriteStatistics записывает statistics.html.
func WriteStatistics(dir string, st []domain.Stat) error {
	page := statisticsPage{
		Title: ganttTitle,
		Stats: st,
	}
	return render(filepath.Join(dir, StatisticsFilename), "statistics.html", page)
}

// WriteRawStats записывает raw_stats.json.
func WriteRawStats(dir string, raw []domain.RawStat) error {
	if raw == nil {
		raw = []domain.RawStat{}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal raw stats: %w", err)
	}

	path := filepath.Join(dir, RawStatsFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreateOutput, path, err)
	}
	return nil
}

func render(path, name string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreateOutput, path, err)
	}
	defer f.Close()

	if err := templates.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRenderTemplate, name, err)
	}
	return f.Close()
}

func formatDuration(v float64) string {
	return stats.FormatNumber(stats.FormatFloat(v))
}
