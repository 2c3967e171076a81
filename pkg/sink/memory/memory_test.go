package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgrid/dctm-connector/pkg/sink"
)

func TestSink_PreservesBatchBoundariesAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, []sink.DocID{"/a", "/b"}))
	require.NoError(t, s.Push(ctx, []sink.DocID{"/c"}))

	batches := s.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, []sink.DocID{"/a", "/b"}, batches[0])
	assert.Equal(t, []sink.DocID{"/c"}, batches[1])
	assert.Equal(t, []sink.DocID{"/a", "/b", "/c"}, s.IDs())
}

func TestSink_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Push(ctx, []sink.DocID{"/a"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Batches())
}
