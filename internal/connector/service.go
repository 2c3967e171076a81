// Package connector implements the connector core: the repository session
// lifecycle and the service that turns raw configuration into a validated,
// session-backed enumeration of document identifiers.
package connector

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/contentgrid/dctm-connector/internal/config"
	"github.com/contentgrid/dctm-connector/pkg/dctm"
	"github.com/contentgrid/dctm-connector/pkg/sink"
	"github.com/contentgrid/dctm-connector/pkg/startpath"
	"github.com/contentgrid/dctm-connector/pkg/urivalid"
)

// Stage identifies how far service initialization progressed. Initialization
// is linear with no retries; a failure leaves the service at the last stage
// it completed, so a config problem is statically distinguishable from a
// connection problem.
type Stage int

const (
	StageUninitialized Stage = iota
	StageConfigValidated
	StagePathsResolved
	StageConnectionVerified
	StageReady
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageConfigValidated:
		return "config-validated"
	case StagePathsResolved:
		return "paths-resolved"
	case StageConnectionVerified:
		return "connection-verified"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// contentType is the declared type for generated plain-text payloads.
const contentType = "text/plain; charset=UTF-8"

// Service wires configuration validation, start-path parsing, and the
// repository connector together, and serves the two runtime operations the
// hosting framework needs: enumerating start identifiers into the sink and
// fetching per-document content.
//
// The runtime operations are safe to invoke concurrently with each other:
// after Init, the only shared state they touch is the immutable start-path
// set.
type Service struct {
	cfg      *config.Config
	provider dctm.Provider
	idSink   sink.IdentifierSink
	logger   hclog.Logger

	stage      Stage
	startPaths []string
	repository *RepositoryConnector
}

// NewService creates an uninitialized service. Call Init before using the
// runtime operations.
func NewService(cfg *config.Config, provider dctm.Provider, idSink sink.IdentifierSink, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		cfg:      cfg,
		provider: provider,
		idSink:   idSink,
		logger:   logger.Named("connector"),
		stage:    StageUninitialized,
	}
}

// Init runs the startup sequence: validate configuration, resolve start
// paths, run endpoint URI diagnostics, then verify the docbase connection by
// acquiring and immediately releasing a session. Every failure is fatal and
// nothing is retried at this layer.
func (s *Service) Init(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	s.stage = StageConfigValidated

	d := s.cfg.Documentum
	s.logger.Debug("documentum.src", "value", d.Src)
	s.logger.Debug("documentum.separatorRegex", "value", d.Separator())

	paths, err := startpath.Parse(d.Src, d.Separator())
	if err != nil {
		return err
	}
	s.startPaths = paths
	s.stage = StagePathsResolved
	s.logger.Info("resolved start paths", "count", len(paths), "paths", paths)

	if err := s.checkEndpointURIs(); err != nil {
		return err
	}

	s.repository = NewRepositoryConnector(s.provider, d.DocbaseName, d.Username, d.Password, s.logger)
	if err := s.repository.VerifyConnection(ctx); err != nil {
		return err
	}
	s.stage = StageConnectionVerified

	s.stage = StageReady
	return nil
}

// checkEndpointURIs validates the optional operator URLs. A malformed URL is
// a configuration bug and fails startup; an unreachable host only warns.
func (s *Service) checkEndpointURIs() error {
	d := s.cfg.Documentum
	for _, uriString := range []string{d.ServerURL, d.DisplayURL} {
		if uriString == "" {
			continue
		}
		validated, err := urivalid.Validate(uriString)
		if err != nil {
			return err
		}
		validated.LogUnreachableHost(s.logger)
	}
	return nil
}

// Stage reports how far initialization progressed.
func (s *Service) Stage() Stage {
	return s.stage
}

// StartPaths returns a copy of the resolved start paths.
func (s *Service) StartPaths() []string {
	out := make([]string, len(s.startPaths))
	copy(out, s.startPaths)
	return out
}

// EnumerateStartIDs maps the start paths one-to-one, in order, to document
// identifiers and delivers them to the sink as a single batch. Duplicates
// are pushed as-is. A sink interruption (context cancellation included)
// propagates to the caller uninterpreted; there is no retry or buffering.
func (s *Service) EnumerateStartIDs(ctx context.Context) error {
	ids := make([]sink.DocID, 0, len(s.startPaths))
	for _, path := range s.startPaths {
		ids = append(ids, sink.DocID(path))
	}

	s.logger.Debug("pushing document identifiers", "count", len(ids))
	return s.idSink.Push(ctx, ids)
}

// Content is one fetched document payload with its declared content type.
type Content struct {
	Type string
	Body []byte
}

// FetchContent returns the payload for one document identifier. The current
// body is a plain-text rendering of the identifier; the real repository
// content path replaces this without touching callers.
func (s *Service) FetchContent(id sink.DocID) *Content {
	s.logger.Debug("get content", "id", id.String())
	return &Content{
		Type: contentType,
		Body: []byte("Content for " + id.String()),
	}
}
