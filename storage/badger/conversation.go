package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/storage"
)

// ConversationRepository implements storage.ConversationRepository for
// BadgerDB. Each aggregate is stored as a single value, so saves and
// read-modify-write updates are atomic at the conversation level.
type ConversationRepository struct {
	backend *Backend
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) *ConversationRepository {
	return &ConversationRepository{backend: backend}
}

// Close releases repository resources. The backend is owned by the caller.
func (r *ConversationRepository) Close() error {
	return nil
}

// SaveConversation persists the full aggregate, replacing any previous version.
func (r *ConversationRepository) SaveConversation(ctx context.Context, conv *core.Conversation) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeConversationKey(conv.ID)
		if err := tx.Set(key, storage.MarshalConversation(conv)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetConversation loads the aggregate for the given conversation ID.
func (r *ConversationRepository) GetConversation(ctx context.Context, conversationID string) (*core.Conversation, error) {
	var conv *core.Conversation

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConversationKey(conversationID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			conv, err = storage.UnmarshalConversation(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return conv, nil
}

// UpdateDocument applies a transition to one document record inside a
// read-modify-write transaction on the aggregate. A rejected transition
// persists nothing.
func (r *ConversationRepository) UpdateDocument(ctx context.Context, conversationID string, docID core.ID, apply func(*core.DocumentRecord) bool) (bool, error) {
	applied := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeConversationKey(conversationID)
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var conv *core.Conversation
		if err := item.Value(func(val []byte) error {
			conv, err = storage.UnmarshalConversation(val)
			return err
		}); err != nil {
			return err
		}

		record := conv.GetDocument(docID)
		if record == nil {
			return storage.ErrNotFound
		}

		if !apply(record) {
			// Rejected transition: leave the stored aggregate untouched.
			return nil
		}
		applied = true

		if err := tx.Set(key, storage.MarshalConversation(conv)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return applied, err
}

// ListConversationIDs returns the IDs of all stored aggregates.
func (r *ConversationRepository) ListConversationIDs(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(conversationPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids = append(ids, conversationIDFromKey(iter.Item().Key()))
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return ids, nil
}
