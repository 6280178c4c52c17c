package watcher

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/mq"
)

// handleRequested анализирует лог из сообщения analysis.requested.
//
// Запрос выполняется всегда, даже если лог уже анализировался.
// Отсутствующий файл и упавший анализ отправляются в DLQ без повтора.
func (w *Watcher) handleRequested(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.AnalysisRequestedPayload](msg)
	if err != nil {
		return fmt.Errorf("%w: %v", mq.ErrReject, err)
	}
	if payload.Logfile == "" {
		return fmt.Errorf("%w: empty logfile", mq.ErrReject)
	}

	if _, err := os.Stat(payload.Logfile); err != nil {
		return fmt.Errorf("%w: %v", mq.ErrReject, err)
	}

	w.logger.Info("analysis requested", "logfile", payload.Logfile, "message_id", msg.ID)
	w.markProcessed(payload.Logfile)

	analysis, err := w.analyze(ctx, payload.Logfile)
	if analysis != nil && analysis.Status == domain.AnalysisStatusFailed {
		return fmt.Errorf("%w: %v", mq.ErrReject, err)
	}
	// Ошибки sink'ов не повод анализировать заново
	return nil
}
