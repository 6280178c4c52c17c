package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Analysis/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeAnalysisRequested MessageType = "analysis.requested"
	MessageTypeAnalysisCompleted MessageType = "analysis.completed"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage создаёт сообщение с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// AnalysisRequestedPayload — запрос на анализ лога.
type AnalysisRequestedPayload struct {
	Logfile string `json:"logfile"`
}

// AnalysisCompletedPayload — итог анализа.
type AnalysisCompletedPayload struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	Logfile    string    `json:"logfile"`
	Scenario   string    `json:"scenario"`
	RunNumber  string    `json:"run_number,omitempty"`
	Status     string    `json:"status"`
	Tasks      int       `json:"tasks"`
	OutputDir  string    `json:"output_dir,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// NewAnalysisCompletedPayload собирает payload из результата анализа.
func NewAnalysisCompletedPayload(a *domain.Analysis) AnalysisCompletedPayload {
	return AnalysisCompletedPayload{
		AnalysisID: a.ID,
		Logfile:    a.Logfile,
		Scenario:   a.Scenario,
		RunNumber:  a.RunNumber,
		Status:     a.Status.String(),
		Tasks:      a.Tasks,
		OutputDir:  a.OutputDir,
		Error:      a.Error,
		DurationMs: a.Duration().Milliseconds(),
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishAnalysisRequested ставит лог в очередь на анализ.
// Потребитель: analysis-watcher.
func (p *Publisher) PublishAnalysisRequested(ctx context.Context, logfile string) error {
	msg := NewMessage(MessageTypeAnalysisRequested, AnalysisRequestedPayload{Logfile: logfile})
	return p.Publish(ctx, ExchangeEvents, RoutingKeyRequested, msg)
}

// PublishAnalysisCompleted публикует итог анализа.
func (p *Publisher) PublishAnalysisCompleted(ctx context.Context, a *domain.Analysis) error {
	msg := NewMessage(MessageTypeAnalysisCompleted, NewAnalysisCompletedPayload(a))
	return p.Publish(ctx, ExchangeEvents, RoutingKeyCompleted, msg)
}
