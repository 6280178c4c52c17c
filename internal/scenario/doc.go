// Package scenario разбирает логи scenario player и логи нод.
//
// # Обзор
//
// Лог сценария — JSON-lines файл (возможно, сжатый gzip):
//
//	{"run_number": 3}
//	{"event": "Task successful", "task": "<TransferTask: {'from': 0, 'to': 1, 'identifier': 42}>",
//	 "runtime": 0.52, "timestamp": "2020-01-28 12:27:12.123456", "id": 5}
//
// Строка с run_number задаёт номер запуска. Остальные строки попадают
// в анализ, только если в них есть поле runtime.
//
// Логи нод лежат рядом: node_<run>_<n>/*.log[.gz]. Для каждой задачи
// считается, в скольких логах нод встречается её identifier.
//
// # Ключевые функции
//
//   - ReadLog — чтение и сортировка записей лога сценария
//   - ScenarioName — имя сценария из имени файла
//   - OpenNodeLogs — параллельное чтение логов нод
//   - FillRows — построение строк gantt/таблицы/CSV
package scenario
