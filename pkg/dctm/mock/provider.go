// Package mock provides a scriptable dctm session provider for tests. It
// counts session acquisitions and releases so tests can assert that every
// acquired session is released exactly once.
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/contentgrid/dctm-connector/pkg/dctm"
)

// Provider is an in-memory session provider.
//
// The zero value works; error fields may be set before use to script
// failures. Counters are shared across all session managers created from the
// same provider.
type Provider struct {
	// GetSessionErr, when set, is returned by every GetSession call.
	GetSessionErr error

	// ReleaseErr, when set, is returned by every Release call. The release
	// is still counted.
	ReleaseErr error

	// ServerVer is the version reported by acquired sessions.
	ServerVer string

	mu         sync.Mutex
	gets       int
	releases   int
	identities map[string]dctm.LoginInfo
}

// New returns a mock provider reporting a fixed server version.
func New() *Provider {
	return &Provider{ServerVer: "mock content server 7.3"}
}

// Version reports the mock client version.
func (p *Provider) Version() string {
	return "mock-dfc/0.0"
}

// NewSessionManager returns a session manager sharing this provider's state.
func (p *Provider) NewSessionManager() dctm.SessionManager {
	return &manager{provider: p}
}

// GetSessionCalls returns how many sessions were acquired.
func (p *Provider) GetSessionCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gets
}

// ReleaseCalls returns how many sessions were released.
func (p *Provider) ReleaseCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releases
}

// Identity returns the login bound to docbase, if any.
func (p *Provider) Identity(docbase string) (dctm.LoginInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	login, ok := p.identities[docbase]
	return login, ok
}

type manager struct {
	provider *Provider
}

func (m *manager) SetIdentity(docbase string, login dctm.LoginInfo) {
	p := m.provider
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identities == nil {
		p.identities = make(map[string]dctm.LoginInfo)
	}
	p.identities[docbase] = login
}

func (m *manager) GetSession(ctx context.Context, docbase string) (dctm.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := m.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.GetSessionErr != nil {
		return nil, p.GetSessionErr
	}
	if _, ok := p.identities[docbase]; !ok {
		return nil, errors.New("no identity set for docbase " + docbase)
	}

	p.gets++
	return &session{serverVersion: p.ServerVer}, nil
}

func (m *manager) Release(s dctm.Session) error {
	p := m.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releases++
	return p.ReleaseErr
}

type session struct {
	serverVersion string
}

func (s *session) ServerVersion() string {
	return s.serverVersion
}
