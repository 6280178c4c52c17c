package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// sentryEnabled выставляется после успешной инициализации.
var sentryEnabled bool

// InitSentry инициализирует Sentry. Пустой dsn отключает отправку.
func InitSentry(dsn, release string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	sentryEnabled = true
	return nil
}

// CaptureError отправляет ошибку в Sentry с тегами.
func CaptureError(err error, tags map[string]string) {
	if !sentryEnabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// FlushSentry дожидается отправки буферизованных событий.
func FlushSentry(timeout time.Duration) {
	if sentryEnabled {
		sentry.Flush(timeout)
	}
}
