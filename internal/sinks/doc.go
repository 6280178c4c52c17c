// Package sinks доставляет результат анализа во внешние системы.
//
// # Обзор
//
// Sink получает завершённый domain.Analysis и публикует его:
//
//   - webhook — отчёт в чат (notify.Client)
//   - repo    — запись в PostgreSQL (repo.AnalysisRepo)
//   - events  — событие analysis.completed в RabbitMQ (mq.Publisher)
//   - archive — копия каталога analysis_<run> в S3 (archive.Uploader)
//
// Sink'и регистрируются в Registry; PublishAll вызывает все
// зарегистрированные sink'и и собирает ошибки через multierr, так что
// отказ одного sink'а не мешает остальным.
package sinks
