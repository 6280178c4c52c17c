package scenario

import "errors"

// Ошибки разбора логов.
var (
	// ErrOpenLog — не удалось открыть лог сценария.
	ErrOpenLog = errors.New("open scenario log")

	// ErrReadLog — ошибка чтения лога (включая повреждённый gzip).
	ErrReadLog = errors.New("read scenario log")

	// ErrNodeLogs — не удалось прочитать логи нод.
	ErrNodeLogs = errors.New("read node logs")
)
