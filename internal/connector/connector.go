package connector

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/contentgrid/dctm-connector/pkg/dctm"
)

// RepositoryConnector owns the repository session lifecycle: it builds login
// credentials, acquires sessions against the named docbase, records backend
// version diagnostics, and releases sessions. The connector re-establishes a
// session per unit of work rather than holding a long-lived one.
type RepositoryConnector struct {
	provider dctm.Provider
	docbase  string
	username string
	password string
	logger   hclog.Logger

	mu      sync.Mutex
	manager dctm.SessionManager
}

// NewRepositoryConnector creates a connector for one docbase.
func NewRepositoryConnector(provider dctm.Provider, docbase, username, password string, logger hclog.Logger) *RepositoryConnector {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RepositoryConnector{
		provider: provider,
		docbase:  docbase,
		username: username,
		password: password,
		logger:   logger.Named("repository"),
	}
}

// Connect acquires a new authenticated session against the docbase and logs
// backend version diagnostics. The diagnostics never gate success. Callers
// own the returned session and must hand it back through Release exactly
// once.
func (c *RepositoryConnector) Connect(ctx context.Context) (dctm.Session, error) {
	manager := c.provider.NewSessionManager()
	manager.SetIdentity(c.docbase, dctm.LoginInfo{
		Username: c.username,
		Password: c.password,
	})
	c.logger.Debug("session manager identity set",
		"docbase", c.docbase,
		"username", c.username,
	)

	session, err := manager.GetSession(ctx, c.docbase)
	if err != nil {
		return nil, &ConnectionError{Docbase: c.docbase, Err: err}
	}

	c.logger.Info("connected to content server",
		"docbase", c.docbase,
		"client_version", c.provider.Version(),
		"server_version", session.ServerVersion(),
	)

	c.mu.Lock()
	c.manager = manager
	c.mu.Unlock()

	return session, nil
}

// Release hands a session back to its manager. A release failure after the
// caller's main work is done is logged, never returned.
func (c *RepositoryConnector) Release(session dctm.Session) {
	if session == nil {
		return
	}
	c.mu.Lock()
	manager := c.manager
	c.mu.Unlock()
	if manager == nil {
		return
	}

	c.logger.Info("releasing session", "docbase", c.docbase)
	if err := manager.Release(session); err != nil {
		c.logger.Warn("failed to release session",
			"docbase", c.docbase,
			"error", err,
		)
	}
}

// VerifyConnection proves the docbase is reachable and the credentials are
// valid: it acquires a session, records version diagnostics, and immediately
// releases it. The session is released exactly once regardless of what
// happens after acquisition.
func (c *RepositoryConnector) VerifyConnection(ctx context.Context) error {
	session, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer c.Release(session)
	return nil
}
