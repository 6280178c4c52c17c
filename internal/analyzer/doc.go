// Package analyzer выполняет полный анализ одного лога сценария.
//
// # Обзор
//
// Run проходит шаги:
//
//  1. чтение лога (scenario.ReadLog)
//  2. чтение логов нод node_<run>_*/*.log*
//  3. построение строк gantt, таблицы и CSV
//  4. запись textfile для node-exporter
//  5. расчёт статистики
//  6. запись каталога analysis_<run>
//  7. публикация результата во все sink'и
//
// Лог без run_number или без задач завершается статусом EMPTY без
// записи файлов; sink'и всё равно вызываются (webhook отправит
// "No output").
//
// # Подключения
//
// Open открывает настроенные PostgreSQL, RabbitMQ и S3, FromConfig
// собирает Analyzer с sink'ами для открытых подключений:
//
//	res, err := analyzer.Open(ctx, cfg, logger)
//	defer res.Close()
//	a, err := analyzer.FromConfig(cfg, res, logger)
package analyzer
