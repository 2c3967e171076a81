package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgrid/dctm-connector/internal/config"
	"github.com/contentgrid/dctm-connector/internal/connector"
	"github.com/contentgrid/dctm-connector/pkg/dctm/mock"
	"github.com/contentgrid/dctm-connector/pkg/sink"
	"github.com/contentgrid/dctm-connector/pkg/sink/memory"
)

func newTestServer(t *testing.T, src string) (*httptest.Server, *memory.Sink) {
	t.Helper()

	cfg := &config.Config{
		Documentum: &config.Documentum{
			Username:    "jdoe",
			Password:    "secret",
			DocbaseName: "Marketing",
			Src:         src,
		},
	}
	idSink := memory.New()
	svc := connector.NewService(cfg, mock.New(), idSink, nil)
	require.NoError(t, svc.Init(context.Background()))

	srv := httptest.NewServer(New(svc, "", nil).Handler())
	t.Cleanup(srv.Close)
	return srv, idSink
}

func TestHandleSync(t *testing.T) {
	srv, idSink := newTestServer(t, "/a, /b ,/c")

	resp, err := http.Post(srv.URL+"/api/v1/sync", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	batches := idSink.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []sink.DocID{"/a", "/b", "/c"}, batches[0])
}

func TestHandleSync_EachRequestIsOneBatch(t *testing.T) {
	srv, idSink := newTestServer(t, "/a")

	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/api/v1/sync", "", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	}

	assert.Len(t, idSink.Batches(), 2)
}

func TestHandleDocumentContent(t *testing.T) {
	srv, _ := newTestServer(t, "/a")

	resp, err := http.Get(srv.URL + "/api/v1/documents?id=/Folder1/doc1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=UTF-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Content for /Folder1/doc1", string(body))
}

func TestHandleDocumentContent_MissingID(t *testing.T) {
	srv, _ := newTestServer(t, "/a")

	resp, err := http.Get(srv.URL + "/api/v1/documents")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, "/a")

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{
		Documentum: &config.Documentum{
			Username:    "jdoe",
			Password:    "secret",
			DocbaseName: "Marketing",
			Src:         "/a",
		},
	}
	svc := connector.NewService(cfg, mock.New(), memory.New(), nil)
	require.NoError(t, svc.Init(context.Background()))

	s := New(svc, "127.0.0.1:0", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
