package mock

import (
	"context"
	"sync"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/source"
)

// File is an in-memory document served by MockStore.
type File struct {
	Info    source.FileInfo
	Content []byte
}

// MockStore is a test double for source.Store.
// It serves files registered via AddFile and allows custom behavior
// injection via function fields.
type MockStore struct {
	// FetchMetadataFunc is called by FetchMetadata if set.
	FetchMetadataFunc func(ctx context.Context, docID core.ID) (*source.FileInfo, error)

	// FetchContentFunc is called by FetchContent if set.
	FetchContentFunc func(ctx context.Context, docID core.ID) ([]byte, error)

	mu           sync.Mutex
	files        map[core.ID]File
	metaCalls    int
	contentCalls int
}

var _ source.Store = (*MockStore)(nil)

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{files: make(map[core.ID]File)}
}

// AddFile registers a document. The returned ID is derived from the name so
// tests stay deterministic.
func (m *MockStore) AddFile(name string, content []byte) core.ID {
	docID := core.IDFromContent(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[docID] = File{
		Info: source.FileInfo{
			Name:      name,
			SizeBytes: int64(len(content)),
			Mimetype:  "text/plain",
		},
		Content: content,
	}
	return docID
}

// FetchMetadata resolves a registered file's metadata.
func (m *MockStore) FetchMetadata(ctx context.Context, docID core.ID) (*source.FileInfo, error) {
	m.mu.Lock()
	m.metaCalls++
	m.mu.Unlock()

	if m.FetchMetadataFunc != nil {
		return m.FetchMetadataFunc(ctx, docID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[docID]
	if !ok {
		return nil, source.ErrFileNotFound
	}
	info := file.Info
	return &info, nil
}

// FetchContent reads a registered file's bytes.
func (m *MockStore) FetchContent(ctx context.Context, docID core.ID) ([]byte, error) {
	m.mu.Lock()
	m.contentCalls++
	m.mu.Unlock()

	if m.FetchContentFunc != nil {
		return m.FetchContentFunc(ctx, docID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[docID]
	if !ok {
		return nil, source.ErrFileNotFound
	}
	return file.Content, nil
}

// MetadataCalls returns how many times FetchMetadata was called.
func (m *MockStore) MetadataCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metaCalls
}

// ContentCalls returns how many times FetchContent was called.
func (m *MockStore) ContentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contentCalls
}
