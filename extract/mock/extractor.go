package mock

import (
	"context"
	"sync"

	"github.com/poiesic/docmind/extract"
)

// MockExtractor is a test double for extract.Extractor.
// Default behavior treats content as UTF-8 text; custom behavior can be
// injected via the function field.
type MockExtractor struct {
	// ExtractTextFunc is called by ExtractText if set.
	ExtractTextFunc func(ctx context.Context, content []byte, mimetype string) (string, int, error)

	mu        sync.Mutex
	callCount int
}

var _ extract.Extractor = (*MockExtractor)(nil)

// NewMockExtractor creates a mock extractor with default behavior.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// ExtractText returns the content as text, or delegates to ExtractTextFunc.
func (m *MockExtractor) ExtractText(ctx context.Context, content []byte, mimetype string) (string, int, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(ctx, content, mimetype)
	}
	return string(content), 0, nil
}

// CallCount returns how many times ExtractText was called.
func (m *MockExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
