// Package dctm defines the repository session provider consumed by the
// connector. Implementations wrap a concrete Documentum client (REST
// Services, a DFC bridge, or a test double). The connector treats every
// provider failure as a single connection-error kind regardless of the
// underlying cause.
package dctm

import "context"

// LoginInfo carries the credentials used to authenticate a session.
type LoginInfo struct {
	Username string
	Password string
}

// Session is a live, authenticated handle bound to one docbase. Sessions are
// not designed for concurrent reuse: acquire one per unit of work and hand it
// back through the session manager's Release.
type Session interface {
	// ServerVersion reports the content server version, for diagnostics.
	ServerVersion() string
}

// SessionManager acquires and releases sessions against named docbases.
type SessionManager interface {
	// SetIdentity binds login credentials to a docbase name. It must be
	// called before GetSession for that docbase.
	SetIdentity(docbase string, login LoginInfo)

	// GetSession acquires an authenticated session for the docbase.
	GetSession(ctx context.Context, docbase string) (Session, error)

	// Release returns a session acquired from GetSession. Each session must
	// be released exactly once.
	Release(s Session) error
}

// Provider is the entry point to a repository backend.
type Provider interface {
	// Version reports the backend client version, for diagnostics.
	Version() string

	// NewSessionManager returns a fresh session manager.
	NewSessionManager() SessionManager
}
