package resegment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/docmind/ingestion"
	"github.com/poiesic/docmind/storage"
)

// Report summarizes one sweep.
type Report struct {
	// Conversations is how many conversation aggregates were walked.
	Conversations int

	// Scanned is how many READY documents were checked for a cache entry.
	Scanned int

	// Requeued is how many documents had lost their segments and were
	// re-enqueued for extraction.
	Requeued int
}

// Sweeper finds READY documents whose cached segments have expired and
// requeues them for extraction.
type Sweeper struct {
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	queue         ingestion.JobQueue
	tracker       *ProgressTracker
	logger        *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper) error

// WithProgress attaches a progress tracker, typically writing to stderr.
func WithProgress(tracker *ProgressTracker) SweeperOption {
	return func(s *Sweeper) error {
		s.tracker = tracker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSweeper creates a new sweeper.
func NewSweeper(
	conversations storage.ConversationRepository,
	cache storage.SegmentCache,
	queue ingestion.JobQueue,
	opts ...SweeperOption,
) (*Sweeper, error) {
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if cache == nil {
		return nil, ErrSegmentCacheRequired
	}
	if queue == nil {
		return nil, ErrJobQueueRequired
	}

	s := &Sweeper{
		conversations: conversations,
		cache:         cache,
		queue:         queue,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run walks all conversations and requeues READY documents with a cold
// cache. Only READY records are considered; failed and in-flight documents
// belong to the normal ingestion path.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	conversationIDs, err := s.conversations.ListConversationIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	if s.tracker != nil {
		s.tracker.SetTotal(len(conversationIDs))
		s.tracker.Start()
	}

	report := &Report{}

	for _, conversationID := range conversationIDs {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		conv, err := s.conversations.GetConversation(ctx, conversationID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Deleted between the listing and the read.
				continue
			}
			return report, fmt.Errorf("load conversation %s: %w", conversationID, err)
		}
		report.Conversations++

		for _, record := range conv.ReadyDocuments() {
			report.Scanned++

			_, err := s.cache.GetSegments(ctx, record.DocID)
			if err == nil {
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return report, fmt.Errorf("probe cache for %d: %w", record.DocID, err)
			}

			job := ingestion.Job{
				ConversationID: conversationID,
				DocID:          record.DocID,
				Force:          true,
			}
			if err := s.queue.Enqueue(ctx, job); err != nil {
				s.logger.Error("failed to requeue document",
					"conversation", conversationID, "doc", record.DocID, "err", err)
				continue
			}

			s.logger.Info("requeued document with expired segments",
				"conversation", conversationID, "doc", record.DocID, "name", record.Name)
			report.Requeued++
		}

		if s.tracker != nil {
			s.tracker.Increment(1)
		}
	}

	if s.tracker != nil {
		s.tracker.Finish()
	}

	return report, nil
}
