package badger

import "github.com/poiesic/docmind/storage"

// NewMemoryStores creates an in-memory conversation repository and segment
// cache for testing. Returns conversations, cache, backend, and error.
// Caller must close the backend when done.
func NewMemoryStores() (storage.ConversationRepository, storage.SegmentCache, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	return NewConversationRepository(backend), NewSegmentCache(backend), backend, nil
}
