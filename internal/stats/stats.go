package stats

import (
	"math"
	"sort"

	"github.com/shaiso/Analysis/internal/domain"
)

// Generate считает статистику по типам задач.
// Результат отсортирован по имени типа.
func Generate(rows []domain.TaskRow) []domain.Stat {
	groups := make(map[string][]float64)
	for _, r := range rows {
		groups[r.Type] = append(groups[r.Type], r.Duration)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]domain.Stat, 0, len(names))
	for _, name := range names {
		result = append(result, Compute(name, groups[name]))
	}
	return result
}

// Compute считает статистику для одной группы длительностей.
// durations не изменяется.
func Compute(name string, durations []float64) domain.Stat {
	stat := domain.Stat{
		Name:         name,
		RawDurations: durations,
		Count:        len(durations),
	}
	if len(durations) == 0 {
		return stat
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)

	stat.Min = sorted[0]
	stat.Max = sorted[len(sorted)-1]
	stat.Mean = mean(sorted)
	stat.Median = Percentile(sorted, 50)
	stat.P95 = Percentile(sorted, 95)
	stat.Stdev = stdev(sorted, stat.Mean)
	return stat
}

// Percentile возвращает q-й перцентиль отсортированных данных
// с линейной интерполяцией между соседними значениями.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func mean(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// stdev — стандартное отклонение генеральной совокупности (ddof=0).
func stdev(data []float64, m float64) float64 {
	var sum float64
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(data)))
}
