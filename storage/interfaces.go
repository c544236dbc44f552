package storage

import (
	"context"
	"time"

	"github.com/poiesic/docmind/core"
)

// ConversationRepository provides durable load/save of Conversation
// aggregates and their embedded document records, keyed by conversation ID.
// Implementations must be thread-safe and support concurrent access; a
// single actor writes any given record at a time, so last-write-wins
// semantics on the aggregate are sufficient.
type ConversationRepository interface {
	// SaveConversation persists the full aggregate, replacing any previous
	// version. Creates the aggregate if it does not exist.
	SaveConversation(ctx context.Context, conv *core.Conversation) error

	// GetConversation loads the aggregate for the given conversation ID.
	// Returns ErrNotFound if no document has ever been attached.
	GetConversation(ctx context.Context, conversationID string) (*core.Conversation, error)

	// UpdateDocument applies a transition to one document record inside a
	// read-modify-write of the aggregate. The apply function returns whether
	// the transition was accepted; a rejected transition persists nothing
	// and is reported via applied=false, not an error.
	// Returns ErrNotFound if the conversation or document is unknown.
	UpdateDocument(ctx context.Context, conversationID string, docID core.ID, apply func(*core.DocumentRecord) bool) (applied bool, err error)

	// ListConversationIDs returns the IDs of all stored aggregates.
	ListConversationIDs(ctx context.Context) ([]string, error)

	// Close closes the repository and releases resources.
	Close() error
}

// SegmentCache is a time-expiring store of extracted text segments keyed by
// document ID. Each write atomically replaces the full segment list for a
// document; all segments of a document share one TTL and expire together.
// An expired entry is indistinguishable from a missing one.
type SegmentCache interface {
	// PutSegments stores the full ordered segment list for a document with
	// the given TTL, replacing any previous value.
	PutSegments(ctx context.Context, docID core.ID, segments []core.Segment, ttl time.Duration) error

	// GetSegments returns the full segment list for a document.
	// Returns ErrNotFound on a miss or after expiry.
	GetSegments(ctx context.Context, docID core.ID) ([]core.Segment, error)

	// DeleteSegments removes the cached segments for a document.
	// Deleting an absent entry is not an error.
	DeleteSegments(ctx context.Context, docID core.ID) error

	// Close closes the cache and releases resources.
	Close() error
}
