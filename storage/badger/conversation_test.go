package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/storage"
)

func TestConversationRoundTrip(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	conv := core.NewConversation("conv-1")
	conv.AddDocument(core.IDFromContent("report.pdf"), "report.pdf")

	if err := conversations.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("Failed to save conversation: %v", err)
	}

	loaded, err := conversations.GetConversation(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Failed to load conversation: %v", err)
	}
	if loaded.ID != "conv-1" {
		t.Errorf("ID = %q, want %q", loaded.ID, "conv-1")
	}
	if len(loaded.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(loaded.Records))
	}
	if loaded.Records[0].Name != "report.pdf" {
		t.Errorf("Name = %q, want %q", loaded.Records[0].Name, "report.pdf")
	}
	if loaded.Records[0].Status != core.DocStatusUploading {
		t.Errorf("Status = %v, want UPLOADING", loaded.Records[0].Status)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	_, err = conversations.GetConversation(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetConversation(unknown) = %v, want ErrNotFound", err)
	}
}

func TestUpdateDocument(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.IDFromContent("report.pdf")

	conv := core.NewConversation("conv-1")
	conv.AddDocument(docID, "report.pdf")
	if err := conversations.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("Failed to save conversation: %v", err)
	}

	applied, err := conversations.UpdateDocument(ctx, "conv-1", docID, func(r *core.DocumentRecord) bool {
		return r.MarkProcessing()
	})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	if !applied {
		t.Fatal("UpdateDocument reported applied=false for a valid transition")
	}

	loaded, err := conversations.GetConversation(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Failed to load conversation: %v", err)
	}
	if loaded.Records[0].Status != core.DocStatusProcessing {
		t.Errorf("Status = %v, want PROCESSING", loaded.Records[0].Status)
	}
}

func TestUpdateDocumentRejectedTransition(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	docID := core.ID(7)

	conv := core.NewConversation("conv-1")
	conv.AddDocument(docID, "a.txt")
	if err := conversations.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("Failed to save conversation: %v", err)
	}

	// MarkReady from UPLOADING is rejected; nothing may be persisted.
	applied, err := conversations.UpdateDocument(ctx, "conv-1", docID, func(r *core.DocumentRecord) bool {
		return r.MarkReady(3)
	})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	if applied {
		t.Error("UpdateDocument reported applied=true for a rejected transition")
	}

	loaded, _ := conversations.GetConversation(ctx, "conv-1")
	if loaded.Records[0].Status != core.DocStatusUploading {
		t.Errorf("Status = %v, want UPLOADING after rejected transition", loaded.Records[0].Status)
	}
}

func TestUpdateDocumentUnknown(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	_, err = conversations.UpdateDocument(ctx, "missing-conv", 1, func(r *core.DocumentRecord) bool { return true })
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateDocument(unknown conversation) = %v, want ErrNotFound", err)
	}

	conv := core.NewConversation("conv-1")
	if err := conversations.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("Failed to save conversation: %v", err)
	}
	_, err = conversations.UpdateDocument(ctx, "conv-1", 99, func(r *core.DocumentRecord) bool { return true })
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateDocument(unknown document) = %v, want ErrNotFound", err)
	}
}

func TestListConversationIDs(t *testing.T) {
	conversations, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	for _, id := range []string{"conv-a", "conv-b", "conv-c"} {
		if err := conversations.SaveConversation(ctx, core.NewConversation(id)); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}

	ids, err := conversations.ListConversationIDs(ctx)
	if err != nil {
		t.Fatalf("ListConversationIDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
}
