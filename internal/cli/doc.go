// Package cli реализует команды утилиты analysis.
//
// # Обзор
//
// analysis — точка входа контейнера анализа. Основная команда
// analyze запускает полный конвейер для одного или нескольких логов
// сценариев. Остальные команды нужны для отладки и эксплуатации.
//
// # Команды
//
//   - analyze LOGFILE...  — полный анализ (--no-report, --output-json)
//   - stats LOGFILE       — только таблица статистики (--json)
//   - enqueue LOGFILE...  — постановка логов в очередь analysis.requested
//   - analyses            — просмотр результатов через API gateway
//
// Каждая команда создаётся фабричной функцией (NewAnalyzeCmd и т.д.),
// принимающей замыкания для ленивого создания Config, Output и Client
// после парсинга PersistentFlags.
//
// # Output
//
// Таблицы (text/tabwriter) по умолчанию, JSON с флагом --json.
// Данные выводятся в stdout, сообщения в stderr:
//
//	analysis stats run.log --json | jq .
package cli
