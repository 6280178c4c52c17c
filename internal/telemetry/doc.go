// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики анализатора, watcher'а и gateway
//   - sentry.go  — отправка неожиданных ошибок в Sentry (если задан SENTRY_DSN)
//
// Все бинарники используют единый формат логирования.
// Watcher и gateway экспортируют метрики на /metrics endpoint.
package telemetry
