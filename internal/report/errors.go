package report

import "errors"

var (
	// ErrCreateOutput — не удалось создать каталог или файл результата.
	ErrCreateOutput = errors.New("can't create output")

	// ErrRenderTemplate — ошибка рендеринга HTML-шаблона.
	ErrRenderTemplate = errors.New("can't render template")
)
