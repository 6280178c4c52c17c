// Package repo хранит результаты анализов в PostgreSQL.
//
// Таблицы:
//   - analyses       — один анализ на лог сценария
//   - analysis_stats — статистика по типам задач для каждого анализа
//
// Схема создаётся EnsureSchema при старте и не требует отдельных миграций.
package repo
