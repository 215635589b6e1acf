// Package server exposes the bot status over a small HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
	"github.com/raykavin/solscout/pkg/scanner"
)

// StatusSource exposes scan progress for the health and status endpoints
type StatusSource interface {
	Status() scanner.Status
}

// Server serves the status API mirroring the original bot endpoints
type Server struct {
	port     int
	settings *core.Settings
	storage  core.AlertStorage
	notifier core.Notifier
	status   StatusSource
	log      logger.Logger
}

// Option is a function that configures a Server instance
type Option func(*Server)

// WithNotifier wires the notifier used by /test and /botinfo
func WithNotifier(notifier core.Notifier) Option {
	return func(s *Server) {
		s.notifier = notifier
	}
}

// WithStatusSource wires the scanner for /healthz staleness checks
func WithStatusSource(source StatusSource) Option {
	return func(s *Server) {
		s.status = source
	}
}

// New creates the status API server
func New(port int, settings *core.Settings, storage core.AlertStorage, log logger.Logger, options ...Option) *Server {
	server := &Server{
		port:     port,
		settings: settings,
		storage:  storage,
		log:      log,
	}

	for _, option := range options {
		option(server)
	}

	return server
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/test", s.handleTest)
	mux.HandleFunc("/botinfo", s.handleBotInfo)
	mux.HandleFunc("/alerts", s.handleAlerts)
	return mux
}

// Start runs the HTTP server until the context is canceled
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Infof("status API listening on :%d", s.port)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
