package gateway

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RoutesConfig — зависимости маршрутов gateway.
type RoutesConfig struct {
	ServerName   string
	Networks     []*net.IPNet
	MetricsProxy http.Handler
	Reports      http.Handler
	Handler      *Handler
	Logger       *slog.Logger
}

// NewRouter собирает маршруты gateway.
//
// Маршруты:
//
//	GET  /healthz                     (без проверки хоста)
//	GET  /metrics                     прокси на node-exporter (allowlist)
//	GET  /gateway/metrics             метрики gateway (allowlist)
//	GET  /reports/...                 каталоги analysis_*
//	GET  /api/v1/analyses             (allowlist)
//	GET  /api/v1/analyses/lookup      (allowlist)
//	POST /api/v1/analyses             (allowlist)
func NewRouter(cfg RoutesConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allow := AllowCIDR(cfg.Networks)
	hosted := HostCheck(cfg.ServerName)

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", Metrics("healthz")(http.HandlerFunc(healthz)))

	if cfg.MetricsProxy != nil {
		mux.Handle("GET /metrics", Chain(Metrics("metrics"), hosted, allow)(cfg.MetricsProxy))
	}
	mux.Handle("GET /gateway/metrics", Chain(Metrics("gateway_metrics"), hosted, allow)(promhttp.Handler()))

	if cfg.Reports != nil {
		mux.Handle("GET /reports/", Chain(Metrics("reports"), hosted)(cfg.Reports))
	}

	if h := cfg.Handler; h != nil {
		api := Chain(Metrics("api"), hosted, allow)
		mux.Handle("GET /api/v1/analyses", api(http.HandlerFunc(h.ListAnalyses)))
		mux.Handle("GET /api/v1/analyses/lookup", api(http.HandlerFunc(h.GetAnalysis)))
		mux.Handle("POST /api/v1/analyses", api(http.HandlerFunc(h.CreateAnalysis)))
	}

	mux.Handle("/", Chain(Metrics("other"), hosted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "not found")
	})))

	return Chain(Recovery(logger), Logging(logger))(mux)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
