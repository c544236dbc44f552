package resegment_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/ingestion"
	"github.com/poiesic/docmind/resegment"
	"github.com/poiesic/docmind/storage"
	badgerstore "github.com/poiesic/docmind/storage/badger"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []ingestion.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job ingestion.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []ingestion.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]ingestion.Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}

type sweepFixture struct {
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	queue         *recordingQueue
	closeFn       func() error
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	conversations, cache, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)

	return &sweepFixture{
		conversations: conversations,
		cache:         cache,
		queue:         &recordingQueue{},
		closeFn:       backend.Close,
	}
}

// seed stores a conversation with one document in the given status and,
// when warm is true, a matching cache entry.
func (f *sweepFixture) seed(t *testing.T, convID, name string, status core.DocStatus, warm bool) core.ID {
	t.Helper()

	ctx := context.Background()
	conv, err := f.conversations.GetConversation(ctx, convID)
	if err != nil {
		conv = core.NewConversation(convID)
	}

	docID := core.IDFromContent(name)
	record, added := conv.AddDocument(docID, name)
	require.True(t, added)

	switch status {
	case core.DocStatusUploading:
	case core.DocStatusReady:
		require.True(t, record.MarkProcessing())
		require.True(t, record.MarkReady(1))
	case core.DocStatusFailed:
		require.True(t, record.MarkProcessing())
		require.True(t, record.MarkFailed("seeded failure"))
	default:
		t.Fatalf("unsupported seed status %v", status)
	}
	require.NoError(t, f.conversations.SaveConversation(ctx, conv))

	if warm {
		segments := []core.Segment{{DocID: docID, Index: 0, Text: "cached text", WordCount: 2}}
		require.NoError(t, f.cache.PutSegments(ctx, docID, segments, 0))
	}
	return docID
}

func TestSweepRequeuesColdReadyDocuments(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	cold := f.seed(t, "conv-1", "cold.txt", core.DocStatusReady, false)
	f.seed(t, "conv-1", "warm.txt", core.DocStatusReady, true)

	sweeper, err := resegment.NewSweeper(f.conversations, f.cache, f.queue)
	require.NoError(t, err)

	report, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Conversations)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Requeued)

	jobs := f.queue.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "conv-1", jobs[0].ConversationID)
	assert.Equal(t, cold, jobs[0].DocID)
	assert.True(t, jobs[0].Force)
}

func TestSweepIgnoresNonReadyDocuments(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	f.seed(t, "conv-1", "pending.txt", core.DocStatusUploading, false)
	f.seed(t, "conv-1", "broken.txt", core.DocStatusFailed, false)

	sweeper, err := resegment.NewSweeper(f.conversations, f.cache, f.queue)
	require.NoError(t, err)

	report, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Conversations)
	assert.Equal(t, 0, report.Scanned)
	assert.Empty(t, f.queue.Jobs())
}

func TestSweepWalksAllConversations(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	f.seed(t, "conv-1", "a.txt", core.DocStatusReady, false)
	f.seed(t, "conv-2", "b.txt", core.DocStatusReady, false)
	f.seed(t, "conv-3", "c.txt", core.DocStatusReady, true)

	sweeper, err := resegment.NewSweeper(f.conversations, f.cache, f.queue)
	require.NoError(t, err)

	report, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Conversations)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Requeued)
}

func TestSweepEmptyDatabase(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	sweeper, err := resegment.NewSweeper(f.conversations, f.cache, f.queue)
	require.NoError(t, err)

	report, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &resegment.Report{}, report)
}

func TestSweepReportsProgress(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	f.seed(t, "conv-1", "a.txt", core.DocStatusReady, true)
	f.seed(t, "conv-2", "b.txt", core.DocStatusReady, true)

	var buf bytes.Buffer
	sweeper, err := resegment.NewSweeper(f.conversations, f.cache, f.queue,
		resegment.WithProgress(resegment.NewProgressTracker(&buf, 1)))
	require.NoError(t, err)

	_, err = sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "2/2"))
}

func TestNewSweeperValidation(t *testing.T) {
	f := newSweepFixture(t)
	defer f.closeFn()

	_, err := resegment.NewSweeper(nil, f.cache, f.queue)
	assert.ErrorIs(t, err, resegment.ErrConversationRepositoryRequired)

	_, err = resegment.NewSweeper(f.conversations, nil, f.queue)
	assert.ErrorIs(t, err, resegment.ErrSegmentCacheRequired)

	_, err = resegment.NewSweeper(f.conversations, f.cache, nil)
	assert.ErrorIs(t, err, resegment.ErrJobQueueRequired)
}
