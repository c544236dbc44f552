package core

import "time"

// Conversation is the consistency boundary for all document state belonging
// to one conversation. It holds an ordered list of DocumentRecords unique by
// DocID; insertion order is preserved for display. The aggregate is created
// when the first document is attached and destroyed only with the owning
// conversation, which lives in an external store.
//
// Conversations are not safe for concurrent mutation; the repository's
// read-modify-write operations provide the single-writer discipline.
type Conversation struct {
	ID        string
	CreatedAt time.Time
	Records   []*DocumentRecord
}

// NewConversation creates an empty aggregate for the given conversation ID.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}
}

// AddDocument attaches a record for docID, enforcing uniqueness.
//
// If a record for docID already exists and is not terminal, the existing
// record is returned with added=false (idempotent re-attach). If the
// existing record is Failed or Archived, it is superseded in place by a
// fresh Uploading record, keeping its display position. Otherwise the new
// record is appended.
func (c *Conversation) AddDocument(docID ID, name string) (record *DocumentRecord, added bool) {
	for i, existing := range c.Records {
		if existing.DocID != docID {
			continue
		}
		if !existing.Status.IsTerminal() {
			return existing, false
		}
		fresh := NewDocumentRecord(docID, name)
		c.Records[i] = fresh
		return fresh, true
	}
	fresh := NewDocumentRecord(docID, name)
	c.Records = append(c.Records, fresh)
	return fresh, true
}

// GetDocument returns the record for docID, or nil if not attached.
func (c *Conversation) GetDocument(docID ID) *DocumentRecord {
	for _, record := range c.Records {
		if record.DocID == docID {
			return record
		}
	}
	return nil
}

// Documents returns all records in insertion order.
func (c *Conversation) Documents() []*DocumentRecord {
	return c.Records
}

// ReadyDocuments returns the records whose segments are retrievable,
// in insertion order.
func (c *Conversation) ReadyDocuments() []*DocumentRecord {
	ready := make([]*DocumentRecord, 0, len(c.Records))
	for _, record := range c.Records {
		if record.IsReady() {
			ready = append(ready, record)
		}
	}
	return ready
}

// UpdateDocumentStatus applies a transition function to the record for
// docID. Returns false if the document is not attached or the transition
// was rejected; the aggregate is unchanged in either case beyond what apply
// itself did.
func (c *Conversation) UpdateDocumentStatus(docID ID, apply func(*DocumentRecord) bool) bool {
	record := c.GetDocument(docID)
	if record == nil {
		return false
	}
	return apply(record)
}
