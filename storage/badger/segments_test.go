package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/storage"
)

func TestSegmentCachePutGet(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.IDFromContent("report.pdf")
	segments := []core.Segment{
		{DocID: docID, Index: 0, Text: "the quarterly total was up", WordCount: 5},
		{DocID: docID, Index: 1, Text: "expenses held steady", WordCount: 3},
	}

	if err := cache.PutSegments(ctx, docID, segments, time.Hour); err != nil {
		t.Fatalf("PutSegments failed: %v", err)
	}

	got, err := cache.GetSegments(ctx, docID)
	if err != nil {
		t.Fatalf("GetSegments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(got))
	}
	if got[0].Text != segments[0].Text || got[1].Index != 1 {
		t.Error("segments did not round-trip in order")
	}
}

func TestSegmentCacheMiss(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	_, err = cache.GetSegments(context.Background(), core.ID(12345))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSegments(miss) = %v, want ErrNotFound", err)
	}
}

func TestSegmentCacheReplace(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.ID(1)

	first := []core.Segment{{DocID: docID, Index: 0, Text: "old contents", WordCount: 2}}
	second := []core.Segment{
		{DocID: docID, Index: 0, Text: "new contents", WordCount: 2},
		{DocID: docID, Index: 1, Text: "a second chunk", WordCount: 3},
	}

	if err := cache.PutSegments(ctx, docID, first, time.Hour); err != nil {
		t.Fatalf("PutSegments failed: %v", err)
	}
	if err := cache.PutSegments(ctx, docID, second, time.Hour); err != nil {
		t.Fatalf("PutSegments failed: %v", err)
	}

	got, err := cache.GetSegments(ctx, docID)
	if err != nil {
		t.Fatalf("GetSegments failed: %v", err)
	}
	if len(got) != 2 || got[0].Text != "new contents" {
		t.Error("second write did not fully replace the first")
	}
}

func TestSegmentCacheExpiry(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.ID(2)
	segments := []core.Segment{{DocID: docID, Index: 0, Text: "ephemeral", WordCount: 1}}

	if err := cache.PutSegments(ctx, docID, segments, 50*time.Millisecond); err != nil {
		t.Fatalf("PutSegments failed: %v", err)
	}

	time.Sleep(120 * time.Millisecond)

	_, err = cache.GetSegments(ctx, docID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSegments(expired) = %v, want ErrNotFound", err)
	}
}

func TestSegmentCacheDelete(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.ID(3)

	if err := cache.DeleteSegments(ctx, docID); err != nil {
		t.Errorf("DeleteSegments(absent) = %v, want nil", err)
	}

	segments := []core.Segment{{DocID: docID, Index: 0, Text: "to be deleted", WordCount: 3}}
	if err := cache.PutSegments(ctx, docID, segments, time.Hour); err != nil {
		t.Fatalf("PutSegments failed: %v", err)
	}
	if err := cache.DeleteSegments(ctx, docID); err != nil {
		t.Fatalf("DeleteSegments failed: %v", err)
	}

	_, err = cache.GetSegments(ctx, docID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSegments(deleted) = %v, want ErrNotFound", err)
	}
}
