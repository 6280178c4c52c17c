package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewMetricsProxy проксирует запросы на node-exporter.
// Путь запроса сохраняется, поэтому /metrics уходит на <upstream>/metrics.
func NewMetricsProxy(upstream string, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUpstream, upstream)
	}

	if logger == nil {
		logger = slog.Default()
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("node-exporter is unreachable", "upstream", target.String(), "error", err)
			BadGateway(w, "node-exporter is unreachable")
		},
	}
	return proxy, nil
}
