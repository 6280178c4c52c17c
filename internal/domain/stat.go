package domain

// Stat — статистика длительностей для одного типа задач.
type Stat struct {
	Name         string    `json:"name"`
	RawDurations []float64 `json:"raw_durations"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	Median       float64   `json:"median"`
	P95          float64   `json:"p95"`
	Stdev        float64   `json:"stdev"`
	Count        int       `json:"count"`
}

// RawStat — Stat, где все значения уже приведены к строкам.
// Сериализуется в raw_stats.json и используется для отчёта.
// Порядок полей определяет порядок колонок в markdown-таблице.
type RawStat struct {
	Name   string `json:"name"`
	Min    string `json:"min"`
	Max    string `json:"max"`
	Mean   string `json:"mean"`
	Median string `json:"median"`
	P95    string `json:"p95"`
	Stdev  string `json:"stdev"`
	Count  string `json:"count"`
}

// RawStatKeys — имена колонок RawStat в порядке вывода.
var RawStatKeys = []string{"name", "min", "max", "mean", "median", "p95", "stdev", "count"}

// Values возвращает значения в порядке RawStatKeys.
func (s RawStat) Values() []string {
	return []string{s.Name, s.Min, s.Max, s.Mean, s.Median, s.P95, s.Stdev, s.Count}
}
