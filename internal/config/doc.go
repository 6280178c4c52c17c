// Package config загружает конфигурацию анализатора.
//
// Источники (в порядке приоритета):
//   - переменные окружения (RC_HOOK_SECRET, DATA_DIR, ...)
//   - файл analysis.yaml в ".", "./config" или "/etc/analysis"
//   - значения по умолчанию (setDefaults)
//
// После загрузки Config проверяется через go-playground/validator.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
package config
