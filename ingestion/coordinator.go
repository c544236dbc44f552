package ingestion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/source"
	"github.com/poiesic/docmind/storage"
)

// Coordinator is the synchronous ingestion entry point. It registers
// attached documents and enqueues background extraction; it performs no
// content I/O and never waits on a job, so a call is bounded by metadata
// lookups and one aggregate write.
type Coordinator struct {
	conversations storage.ConversationRepository
	files         source.Store
	queue         JobQueue
	notifier      Notifier
	logger        *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator) error

// WithCoordinatorNotifier sets the notifier receiving acceptance summaries.
// Default is a LogNotifier.
func WithCoordinatorNotifier(notifier Notifier) CoordinatorOption {
	return func(c *Coordinator) error {
		if notifier != nil {
			c.notifier = notifier
		}
		return nil
	}
}

// WithCoordinatorLogger sets a custom logger.
// Default is slog.Default().
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCoordinator creates a new ingestion coordinator.
func NewCoordinator(
	conversations storage.ConversationRepository,
	files source.Store,
	queue JobQueue,
	opts ...CoordinatorOption,
) (*Coordinator, error) {
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if files == nil {
		return nil, ErrSourceStoreRequired
	}
	if queue == nil {
		return nil, ErrJobQueueRequired
	}

	c := &Coordinator{
		conversations: conversations,
		files:         files,
		queue:         queue,
		notifier:      NewLogNotifier(nil),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// IngestedDoc summarizes one newly registered document.
type IngestedDoc struct {
	DocID  core.ID
	Name   string
	Status core.DocStatus
	Pages  int
}

// FailedDoc summarizes one document reference that could not be ingested.
type FailedDoc struct {
	DocID core.ID
	Error string
}

// IngestResult is the structured summary returned to the caller without
// waiting on any background job.
type IngestResult struct {
	Ingested []IngestedDoc
	Failed   []FailedDoc
}

// Ingest registers the given documents with a conversation.
//
// Per reference: an existing non-terminal or READY record makes the
// re-attach an idempotent no-op; a missing source file fails that single
// entry and never aborts the batch; everything else creates an Uploading
// record and enqueues exactly one extraction job. A record whose job cannot
// be enqueued is marked FAILED and reported in Failed, since nothing else
// would ever advance it. The aggregate is created on the first attach.
func (c *Coordinator) Ingest(ctx context.Context, conversationID string, docIDs ...core.ID) (*IngestResult, error) {
	conv, err := c.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		conv = core.NewConversation(conversationID)
	}

	result := &IngestResult{
		Ingested: []IngestedDoc{},
		Failed:   []FailedDoc{},
	}

	seen := make(map[core.ID]bool, len(docIDs))
	newRecords := make([]*core.DocumentRecord, 0, len(docIDs))

	for _, docID := range docIDs {
		if seen[docID] {
			continue
		}
		seen[docID] = true

		if existing := conv.GetDocument(docID); existing != nil && !existing.Status.IsTerminal() {
			c.logger.Debug("document already attached, skipping",
				"conversation", conversationID, "doc", docID, "status", existing.Status)
			continue
		}

		info, err := c.files.FetchMetadata(ctx, docID)
		if err != nil {
			c.logger.Warn("failed to resolve document metadata",
				"conversation", conversationID, "doc", docID, "err", err)
			result.Failed = append(result.Failed, FailedDoc{
				DocID: docID,
				Error: core.TruncateError(err.Error()),
			})
			continue
		}

		record, added := conv.AddDocument(docID, info.Name)
		if !added {
			// Unreachable given the check above; guard anyway.
			continue
		}
		record.Pages = info.Pages
		record.SizeBytes = info.SizeBytes
		record.Mimetype = info.Mimetype

		newRecords = append(newRecords, record)
		result.Ingested = append(result.Ingested, IngestedDoc{
			DocID:  record.DocID,
			Name:   record.Name,
			Status: record.Status,
			Pages:  record.Pages,
		})
	}

	if len(newRecords) > 0 {
		if err := c.conversations.SaveConversation(ctx, conv); err != nil {
			return nil, err
		}

		// A record with no job has no worker to advance it, so an enqueue
		// failure must fail the record: re-attach skips non-terminal records
		// and the sweep only looks at READY ones.
		enqueueFailed := make(map[core.ID]string)
		for _, record := range newRecords {
			job := Job{ConversationID: conversationID, DocID: record.DocID}
			if err := c.queue.Enqueue(ctx, job); err != nil {
				c.logger.Error("failed to enqueue extraction job",
					"conversation", conversationID, "doc", record.DocID, "err", err)
				record.MarkFailed("failed to schedule extraction: " + err.Error())
				enqueueFailed[record.DocID] = record.Error
			}
		}

		if len(enqueueFailed) > 0 {
			if err := c.conversations.SaveConversation(ctx, conv); err != nil {
				return nil, err
			}
			ingested := result.Ingested[:0]
			for _, doc := range result.Ingested {
				if message, failed := enqueueFailed[doc.DocID]; failed {
					result.Failed = append(result.Failed, FailedDoc{DocID: doc.DocID, Error: message})
					continue
				}
				ingested = append(ingested, doc)
			}
			result.Ingested = ingested
		}
	}

	c.notifier.IngestionAccepted(ctx, conversationID, result)
	return result, nil
}
