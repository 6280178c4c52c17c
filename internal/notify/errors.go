package notify

import "errors"

var (
	// ErrWebhookRequest — запрос к webhook не выполнен.
	ErrWebhookRequest = errors.New("webhook request failed")

	// ErrWebhookStatus — webhook ответил кодом не из 2xx.
	ErrWebhookStatus = errors.New("webhook returned error status")
)
