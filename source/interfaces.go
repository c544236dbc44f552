package source

import (
	"context"

	"github.com/poiesic/docmind/core"
)

// FileInfo describes a stored file's metadata.
type FileInfo struct {
	// Name is the display filename.
	Name string

	// SizeBytes is the stored size of the file.
	SizeBytes int64

	// Mimetype is the detected content type, empty when unknown.
	Mimetype string

	// Pages is the page count when the format has one, otherwise 0.
	Pages int
}

// Store is the raw-file storage collaborator. Upload and byte persistence
// live outside this system; the ingestion pipeline only reads from it.
// Implementations must be thread-safe for concurrent use.
//
// A missing file is a first-class, non-retryable failure reported as
// ErrFileNotFound.
type Store interface {
	// FetchMetadata resolves a document's file metadata without reading its
	// content. Returns ErrFileNotFound if the document is unknown.
	FetchMetadata(ctx context.Context, docID core.ID) (*FileInfo, error)

	// FetchContent reads the raw bytes of a document. May be slow for large
	// files; callers are expected to bound it with a context timeout.
	// Returns ErrFileNotFound if the document is unknown.
	FetchContent(ctx context.Context, docID core.ID) ([]byte, error)
}
