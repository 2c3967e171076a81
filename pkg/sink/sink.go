// Package sink defines the identifier sink that receives enumerated document
// identifiers for indexing, and the identifier type itself.
package sink

import "context"

// DocID is an opaque token naming one addressable document or folder path in
// the repository.
type DocID string

// String returns the identifier's string form.
func (id DocID) String() string {
	return string(id)
}

// IdentifierSink receives document identifiers bound for the indexing
// pipeline. Push delivers exactly one batch per enumeration cycle. It may
// block; context cancellation propagates to the caller uninterpreted, and
// implementations must not retry on their own.
type IdentifierSink interface {
	Push(ctx context.Context, ids []DocID) error
}
