// Package gateway — HTTP-вход сервиса анализа.
//
// # Маршруты
//
//   - GET  /healthz           — проверка живости
//   - GET  /metrics           — прокси на node-exporter (только allowlist)
//   - GET  /gateway/metrics   — собственные метрики (только allowlist)
//   - GET  /reports/...       — файлы из каталогов analysis_* в DATA_DIR
//   - GET  /api/v1/analyses   — последние анализы (только allowlist)
//   - GET  /api/v1/analyses/lookup?logfile=... — последний анализ лога
//   - POST /api/v1/analyses   — поставить лог в очередь на анализ
//
// # TLS
//
// Если задан SERVER_NAME, сертификат выпускается через ACME (autocert):
// HTTPS-листенер обслуживает маршруты, HTTP-листенер отвечает на
// ACME-challenge и перенаправляет остальное на HTTPS. Без SERVER_NAME
// работает только HTTP.
package gateway
