package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are stable across conversations: re-attaching the same
// underlying file reuses the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MaxErrorLen is the maximum length of a DocumentRecord error message.
// Longer messages are truncated on MarkFailed.
const MaxErrorLen = 500

// DocStatus is the processing lifecycle status of an attached document.
//
// Transitions are monotonic forward along
// Uploading -> Processing -> Ready, or into Failed from any non-terminal
// status. There is no transition out of Failed or Archived; re-attaching a
// terminally failed document supersedes the record with a fresh one.
type DocStatus int

const (
	// DocStatusUploading means the record exists but no worker has picked it up.
	DocStatusUploading DocStatus = iota + 1
	// DocStatusProcessing means a worker is extracting and segmenting content.
	DocStatusProcessing
	// DocStatusSegmenting is a sub-phase of processing. The current worker
	// collapses it into Processing but the state remains valid.
	DocStatusSegmenting
	// DocStatusIndexing is reserved for a future embedding step.
	DocStatusIndexing
	// DocStatusReady means segments are cached and the document is retrievable.
	DocStatusReady
	// DocStatusFailed means processing failed after exhausting retries.
	DocStatusFailed
	// DocStatusArchived marks a document as logically removed.
	DocStatusArchived
)

// String returns the wire/display name of the status.
func (s DocStatus) String() string {
	switch s {
	case DocStatusUploading:
		return "UPLOADING"
	case DocStatusProcessing:
		return "PROCESSING"
	case DocStatusSegmenting:
		return "SEGMENTING"
	case DocStatusIndexing:
		return "INDEXING"
	case DocStatusReady:
		return "READY"
	case DocStatusFailed:
		return "FAILED"
	case DocStatusArchived:
		return "ARCHIVED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the status is one of the declared values.
func (s DocStatus) Valid() bool {
	return s >= DocStatusUploading && s <= DocStatusArchived
}

// IsTerminal reports whether no further transition may leave this status.
func (s DocStatus) IsTerminal() bool {
	return s == DocStatusFailed || s == DocStatusArchived
}

// DocumentRecord is the durable state of one attached document within one
// conversation. Records are mutated through the Mark* transition methods,
// which reject invalid transitions by returning false instead of erroring;
// callers treat a rejected transition as a no-op logged at warning level.
type DocumentRecord struct {
	DocID         ID
	Name          string
	Status        DocStatus
	Error         string // populated only when Status is Failed
	Pages         int
	SizeBytes     int64
	Mimetype      string
	SegmentsCount int       // > 0 if and only if Status is Ready
	IndexedAt     time.Time // stamped on the transition into Ready
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDocumentRecord creates a record in the Uploading status.
func NewDocumentRecord(docID ID, name string) *DocumentRecord {
	now := time.Now().UTC()
	return &DocumentRecord{
		DocID:     docID,
		Name:      name,
		Status:    DocStatusUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing transitions Uploading -> Processing.
// Returns false without mutating the record for any other current status.
func (r *DocumentRecord) MarkProcessing() bool {
	if r.Status != DocStatusUploading {
		return false
	}
	r.Status = DocStatusProcessing
	r.touch()
	return true
}

// MarkSegmenting transitions Processing -> Segmenting.
// The worker currently treats segmentation as a sub-phase of Processing and
// does not emit this transition, but it remains a legal one.
func (r *DocumentRecord) MarkSegmenting() bool {
	if r.Status != DocStatusProcessing {
		return false
	}
	r.Status = DocStatusSegmenting
	r.touch()
	return true
}

// MarkReady transitions into Ready, storing the segment count and stamping
// IndexedAt. Requires segmentsCount > 0 and a current status of Processing,
// Segmenting or Indexing; returns false otherwise.
func (r *DocumentRecord) MarkReady(segmentsCount int) bool {
	if segmentsCount <= 0 {
		return false
	}
	switch r.Status {
	case DocStatusProcessing, DocStatusSegmenting, DocStatusIndexing:
	default:
		return false
	}
	r.Status = DocStatusReady
	r.SegmentsCount = segmentsCount
	r.Error = ""
	r.IndexedAt = time.Now().UTC()
	r.touch()
	return true
}

// RefreshReady re-stamps a Ready record after its segments were rebuilt.
// Requires segmentsCount > 0 and a current status of Ready; returns false
// otherwise.
func (r *DocumentRecord) RefreshReady(segmentsCount int) bool {
	if segmentsCount <= 0 || r.Status != DocStatusReady {
		return false
	}
	r.SegmentsCount = segmentsCount
	r.IndexedAt = time.Now().UTC()
	r.touch()
	return true
}

// MarkFailed transitions into Failed from any non-terminal status, storing
// the error message truncated to MaxErrorLen characters.
func (r *DocumentRecord) MarkFailed(message string) bool {
	if r.Status.IsTerminal() {
		return false
	}
	r.Status = DocStatusFailed
	r.Error = TruncateError(message)
	r.SegmentsCount = 0
	r.touch()
	return true
}

// Archive transitions into Archived from any non-terminal status.
// Archived documents stay in the conversation for display but are excluded
// from retrieval.
func (r *DocumentRecord) Archive() bool {
	if r.Status.IsTerminal() {
		return false
	}
	r.Status = DocStatusArchived
	r.touch()
	return true
}

// IsReady reports whether the document's segments are retrievable.
func (r *DocumentRecord) IsReady() bool {
	return r.Status == DocStatusReady
}

func (r *DocumentRecord) touch() {
	r.UpdatedAt = time.Now().UTC()
}

// TruncateError shortens an error message to at most MaxErrorLen bytes,
// backing up to a rune boundary so the result stays valid UTF-8.
func TruncateError(message string) string {
	if len(message) <= MaxErrorLen {
		return message
	}
	cut := MaxErrorLen
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut]
}

// Segment is a bounded chunk of extracted document text. Segments live only
// in the segment cache: they are written atomically as one ordered list per
// document and expire together.
type Segment struct {
	DocID     ID
	Index     int
	Text      string
	WordCount int
}

// ScoredSegment is a segment annotated with its source document and a
// relevance score in [0, 1], the unit returned by retrieval.
type ScoredSegment struct {
	Segment
	DocName string
	Score   float64
}
