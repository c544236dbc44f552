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

package docmind

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/extract"
	"github.com/poiesic/docmind/extract/loaders"
	"github.com/poiesic/docmind/ingestion"
	"github.com/poiesic/docmind/resegment"
	"github.com/poiesic/docmind/retrieval"
	"github.com/poiesic/docmind/source"
	"github.com/poiesic/docmind/storage"
	"github.com/poiesic/docmind/storage/badger"
)

// DefaultWorkers is the extraction pool size when not configured.
const DefaultWorkers = 4

// Database wires storage, ingestion, and retrieval into one handle.
type Database struct {
	backend       *badger.Backend
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	files         source.Store
	coordinator   *ingestion.Coordinator
	worker        *ingestion.Worker
	queue         ingestion.JobQueue
	poolQueue     *ingestion.PoolQueue
	engine        *retrieval.Engine
	sweeper       *resegment.Sweeper
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger      *slog.Logger
	inMemory    bool
	workers     int
	segmentTTL  time.Duration
	retryPolicy *ingestion.RetryPolicy
	extractor   extract.Extractor
	segmenter   extract.Segmenter
	queue       ingestion.JobQueue
	notifier    ingestion.Notifier
}

// WithLogger sets the logger used across all components.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemory opens the store without a backing file. Used by tests and
// throwaway environments.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithWorkers sets the extraction pool size.
func WithWorkers(workers int) DatabaseOption {
	return func(o *databaseOptions) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithSegmentTTL sets how long cached segments live before the sweep has to
// rebuild them. Zero caches without expiry.
func WithSegmentTTL(ttl time.Duration) DatabaseOption {
	return func(o *databaseOptions) {
		o.segmentTTL = ttl
	}
}

// WithRetryPolicy overrides the extraction retry policy.
func WithRetryPolicy(policy ingestion.RetryPolicy) DatabaseOption {
	return func(o *databaseOptions) {
		o.retryPolicy = &policy
	}
}

// WithExtractor overrides the default format-aware text extractor.
func WithExtractor(extractor extract.Extractor) DatabaseOption {
	return func(o *databaseOptions) {
		o.extractor = extractor
	}
}

// WithSegmenter overrides the default word-window segmenter, for example
// with the sentence-boundary-aware SplitterSegmenter.
func WithSegmenter(segmenter extract.Segmenter) DatabaseOption {
	return func(o *databaseOptions) {
		o.segmenter = segmenter
	}
}

// WithJobQueue replaces the in-process worker pool with a custom queue,
// such as a synchronous one for tests.
func WithJobQueue(queue ingestion.JobQueue) DatabaseOption {
	return func(o *databaseOptions) {
		o.queue = queue
	}
}

// WithNotifier attaches a streaming collaborator receiving ingestion and
// status notifications.
func WithNotifier(notifier ingestion.Notifier) DatabaseOption {
	return func(o *databaseOptions) {
		o.notifier = notifier
	}
}

// NewDatabase opens the store at filePath and wires the full pipeline
// around the given document source.
func NewDatabase(filePath string, files source.Store, opts ...DatabaseOption) (*Database, error) {
	if files == nil {
		return nil, ingestion.ErrSourceStoreRequired
	}

	options := &databaseOptions{
		logger:     slog.Default(),
		workers:    DefaultWorkers,
		segmentTTL: ingestion.DefaultSegmentTTL,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	conversations := badger.NewConversationRepository(backend)
	cache := badger.NewSegmentCache(backend)

	extractor := options.extractor
	if extractor == nil {
		extractor = loaders.NewExtractor(options.logger)
	}

	segmenter := options.segmenter
	if segmenter == nil {
		segmenter = extract.NewWordSegmenter(extract.DefaultWordsPerSegment)
	}

	notifier := options.notifier
	if notifier == nil {
		notifier = ingestion.NewLogNotifier(options.logger)
	}

	workerOpts := []ingestion.WorkerOption{
		ingestion.WithSegmentTTL(options.segmentTTL),
		ingestion.WithWorkerNotifier(notifier),
		ingestion.WithWorkerLogger(options.logger),
	}
	if options.retryPolicy != nil {
		workerOpts = append(workerOpts, ingestion.WithRetryPolicy(*options.retryPolicy))
	}

	worker, err := ingestion.NewWorker(conversations, cache, files, extractor, segmenter, workerOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	queue := options.queue
	var poolQueue *ingestion.PoolQueue
	if queue == nil {
		poolQueue, err = ingestion.NewPoolQueue(worker, options.workers, options.logger)
		if err != nil {
			backend.Close()
			return nil, err
		}
		queue = poolQueue
	}

	coordinator, err := ingestion.NewCoordinator(conversations, files, queue,
		ingestion.WithCoordinatorNotifier(notifier),
		ingestion.WithCoordinatorLogger(options.logger))
	if err != nil {
		if poolQueue != nil {
			poolQueue.Release()
		}
		backend.Close()
		return nil, err
	}

	engine, err := retrieval.NewEngine(conversations, cache,
		retrieval.WithLogger(options.logger))
	if err != nil {
		if poolQueue != nil {
			poolQueue.Release()
		}
		backend.Close()
		return nil, err
	}

	sweeper, err := resegment.NewSweeper(conversations, cache, queue,
		resegment.WithLogger(options.logger))
	if err != nil {
		if poolQueue != nil {
			poolQueue.Release()
		}
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:       backend,
		conversations: conversations,
		cache:         cache,
		files:         files,
		coordinator:   coordinator,
		worker:        worker,
		queue:         queue,
		poolQueue:     poolQueue,
		engine:        engine,
		sweeper:       sweeper,
		logger:        options.logger,
	}, nil
}

// NewConversationID mints a fresh conversation identifier.
func NewConversationID() string {
	return uuid.NewString()
}

// Attach registers documents with a conversation and schedules extraction.
// It returns as soon as the records are persisted and the jobs are queued.
func (db *Database) Attach(ctx context.Context, conversationID string, docIDs ...core.ID) (*ingestion.IngestResult, error) {
	return db.coordinator.Ingest(ctx, conversationID, docIDs...)
}

// Ask retrieves the segments most relevant to the query from the
// conversation's READY documents.
func (db *Database) Ask(ctx context.Context, conversationID, query string, opts retrieval.Options) (*retrieval.Result, error) {
	return db.engine.Retrieve(ctx, conversationID, query, opts)
}

// Status returns the conversation's document records in attach order.
// An unknown conversation yields an empty slice.
func (db *Database) Status(ctx context.Context, conversationID string) ([]*core.DocumentRecord, error) {
	conv, err := db.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []*core.DocumentRecord{}, nil
		}
		return nil, err
	}
	return conv.Documents(), nil
}

// Archive logically removes a document from retrieval. The record stays in
// the conversation for display; re-attaching the document later starts a
// fresh ingestion. Returns false when the document is unknown or already in
// a terminal state.
func (db *Database) Archive(ctx context.Context, conversationID string, docID core.ID) (bool, error) {
	archived, err := db.conversations.UpdateDocument(ctx, conversationID, docID,
		func(r *core.DocumentRecord) bool { return r.Archive() })
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if archived {
		if err := db.cache.DeleteSegments(ctx, docID); err != nil {
			db.logger.Warn("failed to drop segments for archived document",
				"conversation", conversationID, "doc", docID, "err", err)
		}
	}
	return archived, nil
}

// Sweep requeues READY documents whose cached segments have expired.
func (db *Database) Sweep(ctx context.Context) (*resegment.Report, error) {
	return db.sweeper.Run(ctx)
}

// ConversationRepository exposes the underlying aggregate store.
func (db *Database) ConversationRepository() storage.ConversationRepository {
	return db.conversations
}

// SegmentCache exposes the underlying segment cache.
func (db *Database) SegmentCache() storage.SegmentCache {
	return db.cache
}

// Drain waits for all queued extraction jobs to finish or ctx to expire.
// Only meaningful with the default in-process queue.
func (db *Database) Drain(ctx context.Context) error {
	if db.poolQueue == nil {
		return nil
	}
	return db.poolQueue.Drain(ctx)
}

// Close releases the worker pool and closes storage.
func (db *Database) Close() error {
	if db.poolQueue != nil {
		db.poolQueue.Release()
	}

	if err := db.conversations.Close(); err != nil {
		db.logger.Error("error closing conversation repository", "err", err)
		return err
	}
	if err := db.cache.Close(); err != nil {
		db.logger.Error("error closing segment cache", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
