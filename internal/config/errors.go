package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrInvalidConfig — конфигурация не прошла валидацию.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrMissingHookSecret — отчёт включён, но RC_HOOK_SECRET не задан.
	ErrMissingHookSecret = errors.New("can't publish report: define RC_HOOK_SECRET in environment")

	// ErrInvalidCIDR — некорректная запись в CIDR_ALLOW_METRICS.
	ErrInvalidCIDR = errors.New("invalid CIDR")

	// ErrInvalidClientVersion — некорректная запись в CLIENT_VERSIONS.
	ErrInvalidClientVersion = errors.New("invalid client version")
)
