package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/storage"
)

// SegmentCache implements storage.SegmentCache on BadgerDB using per-entry
// TTLs. The whole segment list of a document is one value, so a write is
// atomic and readers never observe a partial list; expiry removes the list
// as a unit.
type SegmentCache struct {
	backend *Backend
}

var _ storage.SegmentCache = (*SegmentCache)(nil)

// NewSegmentCache creates a new SegmentCache.
func NewSegmentCache(backend *Backend) *SegmentCache {
	return &SegmentCache{backend: backend}
}

// Close releases cache resources. The backend is owned by the caller.
func (c *SegmentCache) Close() error {
	return nil
}

// PutSegments stores the full ordered segment list for a document with the
// given TTL, replacing any previous value.
func (c *SegmentCache) PutSegments(ctx context.Context, docID core.ID, segments []core.Segment, ttl time.Duration) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeSegmentsKey(docID), storage.MarshalSegments(segments))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetSegments returns the full segment list for a document, or
// storage.ErrNotFound on a miss or after expiry.
func (c *SegmentCache) GetSegments(ctx context.Context, docID core.ID) ([]core.Segment, error) {
	var segments []core.Segment

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSegmentsKey(docID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			segments, err = storage.UnmarshalSegments(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return segments, nil
}

// DeleteSegments removes the cached segments for a document.
func (c *SegmentCache) DeleteSegments(ctx context.Context, docID core.ID) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeSegmentsKey(docID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
