package cli

import "errors"

var (
	// ErrBrokerNotConfigured — RABBITMQ_URL не задан.
	ErrBrokerNotConfigured = errors.New("message broker is not configured: define RABBITMQ_URL")

	// ErrAnalysisFailed — хотя бы один лог не удалось проанализировать.
	ErrAnalysisFailed = errors.New("analysis failed")
)
