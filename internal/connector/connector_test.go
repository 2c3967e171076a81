package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgrid/dctm-connector/pkg/dctm/mock"
)

func TestVerifyConnection_ReleasesExactlyOnce(t *testing.T) {
	provider := mock.New()
	c := NewRepositoryConnector(provider, "Marketing", "jdoe", "secret", nil)

	require.NoError(t, c.VerifyConnection(context.Background()))
	assert.Equal(t, 1, provider.GetSessionCalls())
	assert.Equal(t, 1, provider.ReleaseCalls())

	// Each verification acquires and releases its own session.
	require.NoError(t, c.VerifyConnection(context.Background()))
	assert.Equal(t, 2, provider.GetSessionCalls())
	assert.Equal(t, 2, provider.ReleaseCalls())
}

func TestVerifyConnection_ReleaseFailureIsSwallowed(t *testing.T) {
	provider := mock.New()
	provider.ReleaseErr = errors.New("network dropped")
	c := NewRepositoryConnector(provider, "Marketing", "jdoe", "secret", nil)

	// The session was acquired and used; a release failure afterwards is
	// logged, not surfaced.
	assert.NoError(t, c.VerifyConnection(context.Background()))
	assert.Equal(t, 1, provider.GetSessionCalls())
	assert.Equal(t, 1, provider.ReleaseCalls())
}

func TestConnect_FailureWrapsProviderError(t *testing.T) {
	provider := mock.New()
	provider.GetSessionErr = errors.New("DM_SESSION_E_AUTH_FAIL")
	c := NewRepositoryConnector(provider, "Marketing", "jdoe", "bad", nil)

	session, err := c.Connect(context.Background())
	assert.Nil(t, session)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "Marketing", connErr.Docbase)
	assert.Contains(t, err.Error(), "DM_SESSION_E_AUTH_FAIL")

	// Nothing was acquired, so nothing is released.
	assert.Equal(t, 0, provider.GetSessionCalls())
	assert.Equal(t, 0, provider.ReleaseCalls())
}

func TestConnect_BindsIdentityToDocbase(t *testing.T) {
	provider := mock.New()
	c := NewRepositoryConnector(provider, "Marketing", "jdoe", "secret", nil)

	session, err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock content server 7.3", session.ServerVersion())

	login, ok := provider.Identity("Marketing")
	require.True(t, ok)
	assert.Equal(t, "jdoe", login.Username)
	assert.Equal(t, "secret", login.Password)

	c.Release(session)
	assert.Equal(t, 1, provider.ReleaseCalls())
}

func TestRelease_NilSessionIsNoop(t *testing.T) {
	provider := mock.New()
	c := NewRepositoryConnector(provider, "Marketing", "jdoe", "secret", nil)

	c.Release(nil)
	assert.Equal(t, 0, provider.ReleaseCalls())
}
