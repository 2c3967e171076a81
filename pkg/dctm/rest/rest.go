// Package rest implements the dctm session provider against Documentum REST
// Services. A "session" here is a verified credential binding: GetSession
// authenticates against the repository resource and captures the content
// server version; the REST API itself is stateless, so Release has nothing
// to free on the wire.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/contentgrid/dctm-connector/pkg/dctm"
)

// clientVersion identifies this client in connection diagnostics.
const clientVersion = "dctm-rest-go/0.1"

// defaultTimeout bounds each repository request.
const defaultTimeout = 30 * time.Second

// Config holds settings for the REST provider.
type Config struct {
	// BaseURL is the root of the Documentum REST Services deployment,
	// e.g. "http://content.example.com:8080/dctm-rest".
	BaseURL string

	// HTTPClient overrides the default HTTP client. Mainly for tests.
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is not supplied.
	Timeout time.Duration
}

// Provider talks to a Documentum REST Services deployment.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
}

// New creates a REST provider. The base URL is used as given; callers are
// expected to have validated it already.
func New(cfg Config, logger hclog.Logger) *Provider {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger.Named("dctm-rest"),
	}
}

// Version reports the client version for connection diagnostics.
func (p *Provider) Version() string {
	return clientVersion
}

// NewSessionManager returns a fresh session manager backed by this provider.
func (p *Provider) NewSessionManager() dctm.SessionManager {
	return &sessionManager{
		provider:   p,
		identities: make(map[string]dctm.LoginInfo),
	}
}

type sessionManager struct {
	provider *Provider

	mu         sync.Mutex
	identities map[string]dctm.LoginInfo
}

func (m *sessionManager) SetIdentity(docbase string, login dctm.LoginInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[docbase] = login
}

// repositoryResource is the subset of the REST repository document we need.
type repositoryResource struct {
	Name    string `json:"name"`
	Servers []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"servers"`
}

func (m *sessionManager) GetSession(ctx context.Context, docbase string) (dctm.Session, error) {
	m.mu.Lock()
	login, ok := m.identities[docbase]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no identity set for docbase %q", docbase)
	}

	url := fmt.Sprintf("%s/repositories/%s", m.provider.baseURL, docbase)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository request: %w", err)
	}
	req.SetBasicAuth(login.Username, login.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := m.provider.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach repository %s: %w", docbase, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("authentication failed for docbase %s (status %d)", docbase, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from repository %s", resp.StatusCode, docbase)
	}

	var repo repositoryResource
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, fmt.Errorf("failed to decode repository resource: %w", err)
	}

	serverVersion := "unknown"
	if len(repo.Servers) > 0 && repo.Servers[0].Version != "" {
		serverVersion = repo.Servers[0].Version
	}

	m.provider.logger.Debug("acquired repository session",
		"docbase", docbase,
		"server_version", serverVersion,
	)

	return &session{docbase: docbase, serverVersion: serverVersion}, nil
}

func (m *sessionManager) Release(s dctm.Session) error {
	// REST sessions hold no server-side state; releasing is bookkeeping only.
	if sess, ok := s.(*session); ok {
		m.provider.logger.Debug("released repository session", "docbase", sess.docbase)
	}
	return nil
}

type session struct {
	docbase       string
	serverVersion string
}

func (s *session) ServerVersion() string {
	return s.serverVersion
}
