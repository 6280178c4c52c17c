// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий анализа
//   - consumer.go   — потребление запросов на анализ
//
// Типы сообщений:
//   - analysis.requested — запрос на анализ лога (потребитель: watcher)
//   - analysis.completed — анализ завершён (внешние потребители)
//
// Exchanges:
//   - analysis.events — события анализа
//   - analysis.dlq    — dead letter queue
package mq
