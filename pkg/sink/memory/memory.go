// Package memory provides an in-memory identifier sink, used by tests and by
// local runs where no indexer brokers are configured.
package memory

import (
	"context"
	"sync"

	"github.com/contentgrid/dctm-connector/pkg/sink"
)

// Sink records pushed identifier batches in memory. Safe for concurrent use.
type Sink struct {
	mu      sync.Mutex
	batches [][]sink.DocID
}

// New returns an empty in-memory sink.
func New() *Sink {
	return &Sink{}
}

// Push appends a copy of the batch.
func (s *Sink) Push(ctx context.Context, ids []sink.DocID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]sink.DocID, len(ids))
	copy(batch, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

// Batches returns the pushed batches, preserving batch boundaries.
func (s *Sink) Batches() [][]sink.DocID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]sink.DocID, len(s.batches))
	copy(out, s.batches)
	return out
}

// IDs returns all pushed identifiers in push order, flattened.
func (s *Sink) IDs() []sink.DocID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sink.DocID
	for _, batch := range s.batches {
		out = append(out, batch...)
	}
	return out
}
