package mq

import "errors"

var (
	// ErrNoChannel — соединение не установлено или канал закрыт.
	ErrNoChannel = errors.New("no channel available")

	// ErrReject — обработчик отказывается от сообщения без повтора.
	// Сообщение уходит в DLQ.
	ErrReject = errors.New("message rejected")
)
