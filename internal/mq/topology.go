package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeEvents Exchange = "analysis.events"
	ExchangeDLQ    Exchange = "analysis.dlq"
)

// Queues — имена очередей.
const (
	QueueRequested Queue = "analysis.requested"
	QueueCompleted Queue = "analysis.completed"
	QueueDLQ       Queue = "dlq.analysis"
)

// Routing keys.
const (
	RoutingKeyRequested RoutingKey = "requested"
	RoutingKeyCompleted RoutingKey = "completed"
	RoutingKeyDLQ       RoutingKey = "analysis"
)

// queueSpec описывает очередь и её привязку.
type queueSpec struct {
	name       Queue
	exchange   Exchange
	routingKey RoutingKey
	args       amqp.Table
}

// topology возвращает очереди в порядке объявления.
func topology() []queueSpec {
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQ),
	}

	return []queueSpec{
		// Запросы на анализ: отклонённые уходят в DLQ
		{QueueRequested, ExchangeEvents, RoutingKeyRequested, dlqArgs},
		{QueueCompleted, ExchangeEvents, RoutingKeyCompleted, nil},
		{QueueDLQ, ExchangeDLQ, RoutingKeyDLQ, nil},
	}
}

// SetupTopology объявляет exchanges, очереди и привязки.
// Операция идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range []Exchange{ExchangeEvents, ExchangeDLQ} {
			err := ch.ExchangeDeclare(
				string(ex), // name
				"direct",   // type
				true,       // durable
				false,      // auto-deleted
				false,      // internal
				false,      // no-wait
				nil,        // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		for _, q := range topology() {
			_, err := ch.QueueDeclare(
				string(q.name), // name
				true,           // durable
				false,          // delete when unused
				false,          // exclusive
				false,          // no-wait
				q.args,         // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}

			err = ch.QueueBind(
				string(q.name),       // queue name
				string(q.routingKey), // routing key
				string(q.exchange),   // exchange
				false,                // no-wait
				nil,                  // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", q.name, q.exchange, err)
			}
		}

		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Analysis RabbitMQ Topology:

    analysis.events (direct)
    ├── analysis.requested [routing: requested]
    │       Consumer: analysis-watcher
    │       DLQ: dlq.analysis
    └── analysis.completed [routing: completed]
            Consumer: external subscribers

    analysis.dlq (direct)
    └── dlq.analysis [routing: analysis]
            Manual processing
  `
}
