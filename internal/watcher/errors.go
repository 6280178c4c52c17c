package watcher

import "errors"

var (
	// ErrInvalidSchedule — не удалось разобрать расписание сканирования.
	ErrInvalidSchedule = errors.New("invalid scan schedule")

	// ErrInvalidPattern — некорректный glob-шаблон имён логов.
	ErrInvalidPattern = errors.New("invalid log pattern")
)
