package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docmind/core"
)

// Job identifies one extraction unit of work. Delivery is at-least-once;
// the worker's idempotency check makes re-delivery harmless.
type Job struct {
	ConversationID string
	DocID          core.ID

	// Force makes the worker re-run extraction even for a READY record.
	// Set only by the resegment sweep to refresh an expired cache entry.
	Force bool
}

// JobQueue is the fire-and-forget enqueue port for extraction jobs.
type JobQueue interface {
	// Enqueue submits a job for background processing. It never waits on
	// the job itself.
	Enqueue(ctx context.Context, job Job) error
}

// PoolQueue runs jobs on a worker pool inside the current process.
// It is the production queue for single-process deployments; a broker-backed
// implementation satisfies the same contract.
type PoolQueue struct {
	pool   *ants.Pool
	worker *Worker
	wg     sync.WaitGroup
	logger *slog.Logger
}

var _ JobQueue = (*PoolQueue)(nil)

// NewPoolQueue creates a queue running jobs on a pool of size workers.
func NewPoolQueue(worker *Worker, size int, logger *slog.Logger) (*PoolQueue, error) {
	if worker == nil {
		return nil, ErrWorkerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	if size < 1 {
		size = 1
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &PoolQueue{
		pool:   pool,
		worker: worker,
		logger: logger,
	}, nil
}

// Enqueue submits the job to the pool. The job runs with its own context:
// the caller's request lifetime must not bound background extraction.
func (q *PoolQueue) Enqueue(ctx context.Context, job Job) error {
	q.wg.Add(1)
	err := q.pool.Submit(func() {
		defer q.wg.Done()
		if err := q.worker.Process(context.Background(), job); err != nil {
			q.logger.Error("extraction job failed",
				"conversation", job.ConversationID, "doc", job.DocID, "err", err)
		}
	})
	if err != nil {
		q.wg.Done()
		return err
	}
	return nil
}

// Drain waits until all enqueued jobs have finished or ctx expires.
func (q *PoolQueue) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Release shuts the pool down. The queue should not be used after Release.
func (q *PoolQueue) Release() {
	q.pool.Release()
}

// InlineQueue processes jobs synchronously on Enqueue. Used by tests and
// one-shot tools where the process exits right after ingestion.
type InlineQueue struct {
	worker *Worker
	logger *slog.Logger
}

var _ JobQueue = (*InlineQueue)(nil)

// NewInlineQueue creates a synchronous queue.
func NewInlineQueue(worker *Worker, logger *slog.Logger) (*InlineQueue, error) {
	if worker == nil {
		return nil, ErrWorkerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineQueue{worker: worker, logger: logger}, nil
}

// Enqueue runs the job before returning. Job errors are logged, matching
// the fire-and-forget contract.
func (q *InlineQueue) Enqueue(ctx context.Context, job Job) error {
	if err := q.worker.Process(ctx, job); err != nil {
		q.logger.Error("extraction job failed",
			"conversation", job.ConversationID, "doc", job.DocID, "err", err)
	}
	return nil
}
