// Package promfile записывает длительности задач в textfile для
// node-exporter (textfile collector).
//
// Метрика scenario_player_task_duration_sec — summary с метками
// scenario, task, nodes_involved, implementation, version.
// Файл перезаписывается целиком при каждом анализе.
package promfile
