// Package stats считает статистику длительностей задач и готовит её к выводу.
//
// Generate группирует строки по типу задачи и считает min, max, mean,
// median, p95 (линейная интерполяция) и стандартное отклонение
// генеральной совокупности.
//
// Raw приводит статистику к строкам (raw_stats.json), MarkdownTable
// строит таблицу для отчёта в чат.
package stats
