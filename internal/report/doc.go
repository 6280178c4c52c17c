// Package report записывает результаты анализа в каталог analysis_<run>.
//
// # Файлы
//
//   - gantt-overview.html — gantt-диаграмма задач и таблица задач
//   - durations.csv — длительность каждой задачи
//   - statistics.html — статистика и гистограмма по каждому типу задач
//   - raw_stats.json — статистика в строковом виде
//
// HTML-шаблоны встроены в бинарник через embed, графики строятся
// plotly.js на стороне браузера.
package report
