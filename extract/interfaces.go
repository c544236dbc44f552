package extract

import "context"

// Extractor converts raw document bytes into plain text.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// ExtractText extracts the text of a document. The mimetype hints at the
	// format; implementations fall back to treating content as UTF-8 text
	// when the format is unknown. pages is the page count when the format
	// has one, otherwise 0.
	// Extraction failure is the primary retryable error class of the
	// pipeline; callers bound the call with a context timeout.
	ExtractText(ctx context.Context, content []byte, mimetype string) (text string, pages int, err error)
}

// Segmenter splits extracted text into an ordered list of non-empty chunks
// that together cover the document. The chunking strategy is replaceable:
// fixed word windows, sentence-boundary-aware splitting and overlapping
// windows all satisfy the same contract.
// Implementations must be thread-safe for concurrent use.
type Segmenter interface {
	// Segment splits text into ordered, non-empty chunks.
	// Returns an empty slice for text with no content.
	Segment(text string) ([]string, error)
}
