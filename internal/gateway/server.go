// Package gateway is the chatgate HTTP server: the session identity gate,
// the chat endpoint, and the exchange log endpoints.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jdelgato/chatgate/internal/config"
	"github.com/jdelgato/chatgate/internal/domain"
	"github.com/jdelgato/chatgate/internal/logging"
	"github.com/jdelgato/chatgate/internal/version"
)

// Responder produces an assistant reply for one user message.
type Responder interface {
	Run(ctx context.Context, message string) (string, error)
}

// ExchangeLog is the audit store contract the handlers depend on.
type ExchangeLog interface {
	Append(ctx context.Context, sessionID, query, response string) (domain.Exchange, error)
	ListAll(ctx context.Context) ([]domain.Exchange, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Exchange, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Server is the chatgate gateway HTTP server.
type Server struct {
	cfg       config.Config
	log       *logging.Logger
	responder Responder
	exchanges ExchangeLog
	staticDir string
	version   string

	httpServer *http.Server
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithResponder sets the assistant orchestrator backing /api/chat.
func WithResponder(r Responder) ServerOption {
	return func(s *Server) {
		s.responder = r
	}
}

// WithExchangeLog sets the audit store backing the log endpoints.
func WithExchangeLog(e ExchangeLog) ServerOption {
	return func(s *Server) {
		s.exchanges = e
	}
}

// WithStaticDir serves a frontend directory at the root path.
func WithStaticDir(dir string) ServerOption {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// New creates a new gateway server.
func New(cfg config.Config, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log.Sub("gateway"),
		version: version.Version,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.staticDir == "" {
		s.staticDir = cfg.Static.Dir
	}

	return s
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP connections. It blocks until the context
// is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	handler := s.Handler()

	// A chat request can legitimately take as long as the poll timeout, so
	// the write timeout must sit above it.
	writeTimeout := time.Duration(s.cfg.Assistant.PollTimeoutMs)*time.Millisecond + 30*time.Second

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Server.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.Server.TLS.CertPath, s.cfg.Server.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		ln = tls.NewListener(ln, tlsCfg)
		s.log.Info().Msg("TLS enabled")
	} else if s.cfg.Server.Bind != "loopback" {
		s.log.Warn().Msg("TLS is not enabled, session cookies will be transmitted in cleartext")
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Str("writePolicy", s.cfg.Audit.WritePolicy).
		Msg("gateway server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler builds the complete middleware-wrapped route handler. Exposed so
// tests can exercise the full pipeline without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	gated := sessionGate(mux, s.cfg.Auth, s.log)
	return withMiddleware(gated, s.log, s.cfg.Server.AllowedOrigins)
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
