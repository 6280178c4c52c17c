// Package watcher следит за DATA_DIR и анализирует новые логи сценариев.
//
// # Обзор
//
// Источники новых файлов:
//   - события fsnotify (event-driven)
//   - периодическое сканирование каталога по cron-расписанию (fallback),
//     первое сканирование сразу при старте
//   - запросы analysis.requested из RabbitMQ (если брокер настроен)
//
// Файл анализируется, когда он не менялся дольше settle: scenario player
// дописывает лог до конца прогона. Обработанные файлы запоминаются в
// памяти; если настроено хранилище, уже сохранённые анализы пропускаются
// и после рестарта.
package watcher
