package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig — конфигурация Server.
type ServerConfig struct {
	// ServerName — имя хоста для сертификата. Пустое отключает TLS.
	ServerName string

	HTTPAddr     string
	HTTPSAddr    string
	ACMECacheDir string

	Handler http.Handler
	Logger  *slog.Logger
}

// Server — HTTP(S) сервер gateway.
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger
}

// NewServer создаёт новый Server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: logger}
}

// TLSEnabled возвращает true, если сервер выпускает сертификат через ACME.
func (s *Server) TLSEnabled() bool {
	return s.cfg.ServerName != ""
}

// Run запускает listeners и блокируется до отмены ctx.
//
// С TLS: HTTPS на HTTPSAddr, HTTP на HTTPAddr отвечает на ACME challenge
// и перенаправляет остальное на HTTPS. Без TLS: только HTTP на HTTPAddr.
func (s *Server) Run(ctx context.Context) error {
	var servers []*http.Server
	var serve []func() error

	if s.TLSEnabled() {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(s.cfg.ServerName),
			Cache:      autocert.DirCache(s.cfg.ACMECacheDir),
		}

		httpsSrv := &http.Server{
			Addr:              s.cfg.HTTPSAddr,
			Handler:           s.cfg.Handler,
			TLSConfig:         m.TLSConfig(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		httpSrv := &http.Server{
			Addr:              s.cfg.HTTPAddr,
			Handler:           m.HTTPHandler(nil),
			ReadHeaderTimeout: 10 * time.Second,
		}

		servers = append(servers, httpsSrv, httpSrv)
		serve = append(serve,
			func() error { return httpsSrv.ListenAndServeTLS("", "") },
			httpSrv.ListenAndServe,
		)
		s.logger.Info("gateway listening",
			"server_name", s.cfg.ServerName,
			"https_addr", s.cfg.HTTPSAddr,
			"http_addr", s.cfg.HTTPAddr,
		)
	} else {
		httpSrv := &http.Server{
			Addr:              s.cfg.HTTPAddr,
			Handler:           s.cfg.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		servers = append(servers, httpSrv)
		serve = append(serve, httpSrv.ListenAndServe)
		s.logger.Info("gateway listening without TLS", "http_addr", s.cfg.HTTPAddr)
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, fn := range serve {
		g.Go(func() error {
			if err := fn(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var err error
		for _, srv := range servers {
			err = multierr.Append(err, srv.Shutdown(shutdownCtx))
		}
		return err
	})

	return g.Wait()
}
