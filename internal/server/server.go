// Package server exposes the Folio services over a JSON REST API.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

// Request bodies are small JSON documents or one uploaded image.
const (
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 2 * time.Minute
)

// Server serves the folio API for one App.
type Server struct {
	app          *app.App
	httpServer   *http.Server
	logger       *common.Logger
	limiter      *loginLimiter
	shutdownChan chan struct{}
}

// NewServer builds the route table and middleware chain for a.
func NewServer(a *app.App) *Server {
	cfg := a.Config
	s := &Server{
		app:     a,
		logger:  a.Logger,
		limiter: newLoginLimiter(cfg.Auth.LoginRatePerMinute, cfg.Server.TrustProxyHeaders),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      applyMiddleware(mux, a.Logger, cfg, a.Storage.InternalStore()),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// SetShutdownChannel registers the channel signalled by POST /api/shutdown.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// Handler exposes the full middleware chain, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until Shutdown is called; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Str("backend", s.app.Storage.Backend()).
		Bool("trust_proxy_headers", s.app.Config.Server.TrustProxyHeaders).
		Msg("folio API listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("folio API stopping")
	return s.httpServer.Shutdown(ctx)
}
