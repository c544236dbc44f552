package ingestion

import "errors"

var (
	// ErrConversationRepositoryRequired is returned when a conversation repository is not provided.
	ErrConversationRepositoryRequired = errors.New("conversation repository required")

	// ErrSegmentCacheRequired is returned when a segment cache is not provided.
	ErrSegmentCacheRequired = errors.New("segment cache required")

	// ErrSourceStoreRequired is returned when a source store is not provided.
	ErrSourceStoreRequired = errors.New("source store required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrSegmenterRequired is returned when a segmenter is not provided.
	ErrSegmenterRequired = errors.New("segmenter required")

	// ErrJobQueueRequired is returned when a job queue is not provided.
	ErrJobQueueRequired = errors.New("job queue required")

	// ErrWorkerRequired is returned when a worker is not provided.
	ErrWorkerRequired = errors.New("worker required")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// terminalError tags an error as non-retryable so the retry loop can branch
// on kind instead of on error identity.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string { return e.err.Error() }

func (e *terminalError) Unwrap() error { return e.err }

// Terminal wraps err so that RetryPolicy.Do fails immediately instead of
// retrying. Returns nil for a nil err.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTerminal reports whether err is tagged as non-retryable.
func IsTerminal(err error) bool {
	var t *terminalError
	return errors.As(err, &t)
}
