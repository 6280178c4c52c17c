package sinks

import (
	"context"

	"github.com/shaiso/Analysis/internal/domain"
)

// EventPublisher публикует события анализа.
// Реализуется mq.Publisher.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, a *domain.Analysis) error
}

// EventsSink публикует analysis.completed для каждого анализа.
type EventsSink struct {
	publisher EventPublisher
}

// NewEventsSink создаёт EventsSink.
func NewEventsSink(publisher EventPublisher) *EventsSink {
	return &EventsSink{publisher: publisher}
}

// Name возвращает имя sink'а.
func (s *EventsSink) Name() string { return "events" }

// Publish публикует событие.
func (s *EventsSink) Publish(ctx context.Context, a *domain.Analysis) error {
	return s.publisher.PublishAnalysisCompleted(ctx, a)
}
