// Package notify отправляет отчёты об анализе в чат через incoming webhook.
//
// Тело запроса — JSON вида {"text": "..."}. Для прогона с задачами
// отправляется markdown-таблица статистики, для пустого лога —
// короткое сообщение "No output for <logfile>".
package notify
