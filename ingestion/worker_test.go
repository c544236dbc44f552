package ingestion_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/extract"
	extmock "github.com/poiesic/docmind/extract/mock"
	"github.com/poiesic/docmind/ingestion"
	"github.com/poiesic/docmind/source"
	srcmock "github.com/poiesic/docmind/source/mock"
	"github.com/poiesic/docmind/storage"
	badgerstore "github.com/poiesic/docmind/storage/badger"
)

type workerFixture struct {
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	files         *srcmock.MockStore
	extractor     *extmock.MockExtractor
	worker        *ingestion.Worker
	closeFn       func() error
}

func newWorkerFixture(t *testing.T, opts ...ingestion.WorkerOption) *workerFixture {
	t.Helper()

	conversations, cache, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)

	files := srcmock.NewMockStore()
	extractor := extmock.NewMockExtractor()

	base := []ingestion.WorkerOption{
		ingestion.WithRetryPolicy(ingestion.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}),
	}
	worker, err := ingestion.NewWorker(
		conversations, cache, files, extractor,
		extract.NewWordSegmenter(5),
		append(base, opts...)...,
	)
	require.NoError(t, err)

	return &workerFixture{
		conversations: conversations,
		cache:         cache,
		files:         files,
		extractor:     extractor,
		worker:        worker,
		closeFn:       backend.Close,
	}
}

// attach seeds an UPLOADING record the way the coordinator would.
func (f *workerFixture) attach(t *testing.T, convID string, docID core.ID, name string) {
	t.Helper()

	ctx := context.Background()
	conv, err := f.conversations.GetConversation(ctx, convID)
	if errors.Is(err, storage.ErrNotFound) {
		conv = core.NewConversation(convID)
	} else {
		require.NoError(t, err)
	}
	record, added := conv.AddDocument(docID, name)
	require.True(t, added)
	info, err := f.files.FetchMetadata(ctx, docID)
	if err == nil {
		record.Mimetype = info.Mimetype
		record.SizeBytes = info.SizeBytes
	}
	require.NoError(t, f.conversations.SaveConversation(ctx, conv))
}

func (f *workerFixture) record(t *testing.T, convID string, docID core.ID) *core.DocumentRecord {
	t.Helper()
	conv, err := f.conversations.GetConversation(context.Background(), convID)
	require.NoError(t, err)
	record := conv.GetDocument(docID)
	require.NotNil(t, record)
	return record
}

func TestWorkerHappyPath(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"
	docID := f.files.AddFile("report.txt", []byte(text))
	f.attach(t, "conv-1", docID, "report.txt")

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.NoError(t, f.worker.Process(context.Background(), job))

	record := f.record(t, "conv-1", docID)
	assert.Equal(t, core.DocStatusReady, record.Status)
	assert.Equal(t, 3, record.SegmentsCount)
	assert.False(t, record.IndexedAt.IsZero())
	assert.Empty(t, record.Error)

	segments, err := f.cache.GetSegments(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, docID, segments[0].DocID)
	assert.Equal(t, 0, segments[0].Index)
	assert.Equal(t, 5, segments[0].WordCount)
	assert.Equal(t, "alpha beta gamma delta epsilon", segments[0].Text)
	assert.Equal(t, 2, segments[2].WordCount)
}

func TestWorkerExtractionFailureExhaustsRetries(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("content"))
	f.attach(t, "conv-1", docID, "report.txt")

	f.extractor.ExtractTextFunc = func(_ context.Context, _ []byte, _ string) (string, int, error) {
		return "", 0, errors.New("parser crashed")
	}

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	err := f.worker.Process(context.Background(), job)
	require.Error(t, err)

	assert.Equal(t, 3, f.extractor.CallCount())

	record := f.record(t, "conv-1", docID)
	assert.Equal(t, core.DocStatusFailed, record.Status)
	assert.True(t, strings.Contains(record.Error, "parser crashed"))
	assert.Equal(t, 0, record.SegmentsCount)

	_, err = f.cache.GetSegments(context.Background(), docID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWorkerMissingSourceFileIsTerminal(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("content"))
	f.attach(t, "conv-1", docID, "report.txt")

	// File disappears between attach and extraction.
	fetches := 0
	f.files.FetchContentFunc = func(_ context.Context, _ core.ID) ([]byte, error) {
		fetches++
		return nil, source.ErrFileNotFound
	}

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	err := f.worker.Process(context.Background(), job)
	require.Error(t, err)

	// Terminal failure: one attempt only, no retries.
	assert.Equal(t, 1, fetches)

	record := f.record(t, "conv-1", docID)
	assert.Equal(t, core.DocStatusFailed, record.Status)
	assert.True(t, strings.Contains(record.Error, "not found"))
}

func TestWorkerEmptyDocumentIsTerminal(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("empty.txt", []byte("   \n  \t "))
	f.attach(t, "conv-1", docID, "empty.txt")

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	err := f.worker.Process(context.Background(), job)
	require.ErrorIs(t, err, extract.ErrNoText)

	assert.Equal(t, 1, f.extractor.CallCount())

	record := f.record(t, "conv-1", docID)
	assert.Equal(t, core.DocStatusFailed, record.Status)
}

// failingCache fails every write while delegating reads.
type failingCache struct {
	storage.SegmentCache
	puts int
}

func (c *failingCache) PutSegments(_ context.Context, _ core.ID, _ []core.Segment, _ time.Duration) error {
	c.puts++
	return errors.New("disk full")
}

func TestWorkerCacheWriteFailureRetried(t *testing.T) {
	conversations, cache, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	files := srcmock.NewMockStore()
	docID := files.AddFile("report.txt", []byte("some words here to split"))

	broken := &failingCache{SegmentCache: cache}
	worker, err := ingestion.NewWorker(
		conversations, broken, files, extmock.NewMockExtractor(),
		extract.NewWordSegmenter(5),
		ingestion.WithRetryPolicy(ingestion.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}),
	)
	require.NoError(t, err)

	conv := core.NewConversation("conv-1")
	conv.AddDocument(docID, "report.txt")
	require.NoError(t, conversations.SaveConversation(context.Background(), conv))

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.Error(t, worker.Process(context.Background(), job))

	// Cache writes are retryable, so the policy exhausts all attempts.
	assert.Equal(t, 3, broken.puts)

	loaded, err := conversations.GetConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocStatusFailed, loaded.GetDocument(docID).Status)
}

func TestWorkerUnknownConversationDropsJob(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	job := ingestion.Job{ConversationID: "no-such-conv", DocID: 42}
	require.NoError(t, f.worker.Process(context.Background(), job))
	assert.Equal(t, 0, f.files.ContentCalls())
}

func TestWorkerUnknownDocumentDropsJob(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("content"))
	f.attach(t, "conv-1", docID, "report.txt")

	job := ingestion.Job{ConversationID: "conv-1", DocID: 999}
	require.NoError(t, f.worker.Process(context.Background(), job))
	assert.Equal(t, 0, f.files.ContentCalls())
}

func TestWorkerRedeliveryAfterReadyIsNoOp(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("alpha beta gamma"))
	f.attach(t, "conv-1", docID, "report.txt")

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.NoError(t, f.worker.Process(context.Background(), job))
	require.NoError(t, f.worker.Process(context.Background(), job))

	assert.Equal(t, 1, f.extractor.CallCount())
	assert.Equal(t, core.DocStatusReady, f.record(t, "conv-1", docID).Status)
}

func TestWorkerForceReprocessesReadyDocument(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("alpha beta gamma"))
	f.attach(t, "conv-1", docID, "report.txt")

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.NoError(t, f.worker.Process(context.Background(), job))

	require.NoError(t, f.cache.DeleteSegments(context.Background(), docID))

	forced := ingestion.Job{ConversationID: "conv-1", DocID: docID, Force: true}
	require.NoError(t, f.worker.Process(context.Background(), forced))

	assert.Equal(t, 2, f.extractor.CallCount())
	segments, err := f.cache.GetSegments(context.Background(), docID)
	require.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, core.DocStatusReady, f.record(t, "conv-1", docID).Status)
}

func TestWorkerRecordsPageCount(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.pdf", []byte("page one text"))
	f.attach(t, "conv-1", docID, "report.pdf")

	f.extractor.ExtractTextFunc = func(_ context.Context, content []byte, _ string) (string, int, error) {
		return string(content), 7, nil
	}

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.NoError(t, f.worker.Process(context.Background(), job))

	assert.Equal(t, 7, f.record(t, "conv-1", docID).Pages)
}

func TestWorkerErrorMessageTruncated(t *testing.T) {
	f := newWorkerFixture(t)
	defer f.closeFn()

	docID := f.files.AddFile("report.txt", []byte("content"))
	f.attach(t, "conv-1", docID, "report.txt")

	f.extractor.ExtractTextFunc = func(_ context.Context, _ []byte, _ string) (string, int, error) {
		return "", 0, errors.New(strings.Repeat("x", 2*core.MaxErrorLen))
	}

	job := ingestion.Job{ConversationID: "conv-1", DocID: docID}
	require.Error(t, f.worker.Process(context.Background(), job))

	record := f.record(t, "conv-1", docID)
	assert.Equal(t, core.DocStatusFailed, record.Status)
	assert.Len(t, record.Error, core.MaxErrorLen)
}
