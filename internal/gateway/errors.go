package gateway

import "errors"

var (
	// ErrInvalidUpstream — некорректный адрес node-exporter.
	ErrInvalidUpstream = errors.New("invalid upstream url")

	// ErrOutsideDataDir — путь к логу вне DATA_DIR.
	ErrOutsideDataDir = errors.New("path is outside data dir")
)
