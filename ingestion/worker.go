// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/extract"
	"github.com/poiesic/docmind/source"
	"github.com/poiesic/docmind/storage"
)

const (
	// DefaultSegmentTTL is how long cached segments stay warm before the
	// resegment sweep has to rebuild them.
	DefaultSegmentTTL = time.Hour

	// DefaultStepTimeout bounds each fetch and each extraction attempt.
	DefaultStepTimeout = 2 * time.Minute
)

// Worker runs the background extraction pipeline for a single job:
// fetch content, extract text, segment, cache. Progress is written back to
// the document record so status is observable while the job runs.
type Worker struct {
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	files         source.Store
	extractor     extract.Extractor
	segmenter     extract.Segmenter
	retry         RetryPolicy
	segmentTTL    time.Duration
	stepTimeout   time.Duration
	notifier      Notifier
	logger        *slog.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker) error

// WithRetryPolicy overrides the default retry policy (3 attempts, 60s base).
func WithRetryPolicy(policy RetryPolicy) WorkerOption {
	return func(w *Worker) error {
		if policy.MaxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		w.retry = policy
		return nil
	}
}

// WithSegmentTTL overrides the cache lifetime for extracted segments.
// A zero or negative ttl caches without expiry.
func WithSegmentTTL(ttl time.Duration) WorkerOption {
	return func(w *Worker) error {
		w.segmentTTL = ttl
		return nil
	}
}

// WithStepTimeout bounds each individual fetch/extract step.
func WithStepTimeout(timeout time.Duration) WorkerOption {
	return func(w *Worker) error {
		if timeout > 0 {
			w.stepTimeout = timeout
		}
		return nil
	}
}

// WithWorkerNotifier sets the notifier receiving READY/FAILED signals.
func WithWorkerNotifier(notifier Notifier) WorkerOption {
	return func(w *Worker) error {
		if notifier != nil {
			w.notifier = notifier
		}
		return nil
	}
}

// WithWorkerLogger sets a custom logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWorker creates a new extraction worker.
func NewWorker(
	conversations storage.ConversationRepository,
	cache storage.SegmentCache,
	files source.Store,
	extractor extract.Extractor,
	segmenter extract.Segmenter,
	opts ...WorkerOption,
) (*Worker, error) {
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if cache == nil {
		return nil, ErrSegmentCacheRequired
	}
	if files == nil {
		return nil, ErrSourceStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}

	w := &Worker{
		conversations: conversations,
		cache:         cache,
		files:         files,
		extractor:     extractor,
		segmenter:     segmenter,
		retry:         DefaultRetryPolicy(),
		segmentTTL:    DefaultSegmentTTL,
		stepTimeout:   DefaultStepTimeout,
		notifier:      NewLogNotifier(nil),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Process runs the full extraction pipeline for one job. Safe under
// at-least-once delivery: a redelivered job for a READY document is a no-op
// unless the job carries Force.
func (w *Worker) Process(ctx context.Context, job Job) error {
	conv, err := w.conversations.GetConversation(ctx, job.ConversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.logger.Warn("job references unknown conversation, dropping",
				"conversation", job.ConversationID, "doc", job.DocID)
			return nil
		}
		return err
	}

	record := conv.GetDocument(job.DocID)
	if record == nil {
		w.logger.Warn("job references unknown document, dropping",
			"conversation", job.ConversationID, "doc", job.DocID)
		return nil
	}

	if record.Status == core.DocStatusReady && !job.Force {
		w.logger.Debug("document already ready, skipping redelivered job",
			"conversation", job.ConversationID, "doc", job.DocID)
		return nil
	}

	if record.Status.IsTerminal() {
		w.logger.Warn("document in terminal state, dropping job",
			"conversation", job.ConversationID, "doc", job.DocID, "status", record.Status)
		return nil
	}

	if !job.Force {
		applied, err := w.conversations.UpdateDocument(ctx, job.ConversationID, job.DocID,
			func(r *core.DocumentRecord) bool { return r.MarkProcessing() })
		if err != nil {
			return err
		}
		if !applied {
			// Another delivery of the same job already moved the record
			// past UPLOADING; keep going, the pipeline is idempotent.
			w.logger.Debug("document not in UPLOADING, continuing anyway",
				"conversation", job.ConversationID, "doc", job.DocID)
		}
	}

	var segments []core.Segment
	var pages int

	runErr := w.retry.Do(ctx, func() error {
		segs, p, err := w.runPipeline(ctx, record)
		if err != nil {
			return err
		}
		segments = segs
		pages = p
		return nil
	})

	if runErr != nil {
		w.logger.Error("extraction pipeline failed",
			"conversation", job.ConversationID, "doc", job.DocID, "err", runErr)

		_, updateErr := w.conversations.UpdateDocument(ctx, job.ConversationID, job.DocID,
			func(r *core.DocumentRecord) bool { return r.MarkFailed(runErr.Error()) })
		if updateErr != nil {
			w.logger.Error("failed to record document failure",
				"conversation", job.ConversationID, "doc", job.DocID, "err", updateErr)
		} else if failed := w.lookupRecord(ctx, job); failed != nil {
			w.notifier.DocumentFailed(ctx, job.ConversationID, failed)
		}
		return runErr
	}

	applied, err := w.conversations.UpdateDocument(ctx, job.ConversationID, job.DocID,
		func(r *core.DocumentRecord) bool {
			ok := r.MarkReady(len(segments))
			if !ok && job.Force {
				// Forced refresh of a READY record rebuilds the cache without
				// a status transition.
				ok = r.RefreshReady(len(segments))
			}
			if !ok {
				return false
			}
			if r.Pages == 0 && pages > 0 {
				r.Pages = pages
			}
			return true
		})
	if err != nil {
		return err
	}
	if !applied {
		w.logger.Warn("document could not be marked ready",
			"conversation", job.ConversationID, "doc", job.DocID)
		return nil
	}

	w.logger.Info("document extraction complete",
		"conversation", job.ConversationID, "doc", job.DocID, "segments", len(segments))

	if ready := w.lookupRecord(ctx, job); ready != nil {
		w.notifier.DocumentReady(ctx, job.ConversationID, ready)
	}
	return nil
}

// runPipeline performs one attempt of fetch, extract, segment, cache-write.
func (w *Worker) runPipeline(ctx context.Context, record *core.DocumentRecord) ([]core.Segment, int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, w.stepTimeout)
	content, err := w.files.FetchContent(fetchCtx, record.DocID)
	cancel()
	if err != nil {
		if errors.Is(err, source.ErrFileNotFound) {
			// The source file is gone; no amount of retrying brings it back.
			return nil, 0, Terminal(fmt.Errorf("fetch content: %w", err))
		}
		return nil, 0, fmt.Errorf("fetch content: %w", err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, w.stepTimeout)
	text, pages, err := w.extractor.ExtractText(extractCtx, content, record.Mimetype)
	cancel()
	if err != nil {
		return nil, 0, fmt.Errorf("extract text: %w", err)
	}

	chunks, err := w.segmenter.Segment(text)
	if err != nil {
		return nil, 0, fmt.Errorf("segment text: %w", err)
	}
	if len(chunks) == 0 {
		return nil, 0, Terminal(fmt.Errorf("segment text: %w", extract.ErrNoText))
	}

	segments := make([]core.Segment, len(chunks))
	for i, chunk := range chunks {
		segments[i] = core.Segment{
			DocID:     record.DocID,
			Index:     i,
			Text:      chunk,
			WordCount: len(strings.Fields(chunk)),
		}
	}

	if err := w.cache.PutSegments(ctx, record.DocID, segments, w.segmentTTL); err != nil {
		return nil, 0, fmt.Errorf("cache segments: %w", err)
	}

	return segments, pages, nil
}

// lookupRecord re-reads the record for notification payloads. Failures are
// logged and swallowed; notifications are best-effort.
func (w *Worker) lookupRecord(ctx context.Context, job Job) *core.DocumentRecord {
	conv, err := w.conversations.GetConversation(ctx, job.ConversationID)
	if err != nil {
		w.logger.Debug("failed to reload record for notification",
			"conversation", job.ConversationID, "doc", job.DocID, "err", err)
		return nil
	}
	return conv.GetDocument(job.DocID)
}
