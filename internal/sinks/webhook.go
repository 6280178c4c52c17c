package sinks

import (
	"context"

	"github.com/shaiso/Analysis/internal/domain"
)

// Reporter отправляет отчёты в чат.
// Реализуется notify.Client.
type Reporter interface {
	PostReport(ctx context.Context, logfile string, raw []domain.RawStat) error
	PostEmpty(ctx context.Context, logfile string) error
}

// WebhookSink отправляет статистику успешного анализа или
// сообщение "No output" для пустого лога.
type WebhookSink struct {
	reporter Reporter
}

// NewWebhookSink создаёт WebhookSink.
func NewWebhookSink(reporter Reporter) *WebhookSink {
	return &WebhookSink{reporter: reporter}
}

// Name возвращает имя sink'а.
func (s *WebhookSink) Name() string { return "webhook" }

// Publish отправляет отчёт. Упавшие анализы не отправляются.
func (s *WebhookSink) Publish(ctx context.Context, a *domain.Analysis) error {
	switch a.Status {
	case domain.AnalysisStatusSucceeded:
		return s.reporter.PostReport(ctx, a.Logfile, a.RawStats)
	case domain.AnalysisStatusEmpty:
		return s.reporter.PostEmpty(ctx, a.Logfile)
	default:
		return nil
	}
}
