// Package server hosts the connector's HTTP surface: the sync trigger that
// pushes start identifiers into the indexing pipeline, the per-document
// content endpoint, and a health check.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/contentgrid/dctm-connector/internal/connector"
	"github.com/contentgrid/dctm-connector/pkg/sink"
)

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server serves the connector's runtime operations over HTTP.
type Server struct {
	// Service is the initialized connector service.
	Service *connector.Service

	// Addr is the listen address.
	Addr string

	// Logger is the logger for the server.
	Logger hclog.Logger

	httpServer *http.Server
}

// New creates a server for an initialized connector service.
func New(service *connector.Service, addr string, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		Service: service,
		Addr:    addr,
		Logger:  logger.Named("server"),
	}
}

// Handler returns the HTTP handler serving the connector endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sync", s.handleSync)
	mux.HandleFunc("GET /api/v1/documents", s.handleDocumentContent)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", s.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result *multierror.Error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// handleSync runs one enumeration cycle: every start path becomes a document
// identifier pushed to the sink in one batch. No retry here; the caller
// decides whether to trigger another cycle.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.EnumerateStartIDs(r.Context()); err != nil {
		s.Logger.Error("failed to push document identifiers", "error", err)
		http.Error(w, "failed to push document identifiers", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleDocumentContent writes the content-type header and payload for one
// document identifier. A failure writing the payload surfaces to net/http.
func (s *Server) handleDocumentContent(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	content := s.Service.FetchContent(sink.DocID(id))
	w.Header().Set("Content-Type", content.Type)
	if _, err := w.Write(content.Body); err != nil {
		s.Logger.Error("failed to write document content", "id", id, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
