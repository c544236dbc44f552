package loaders

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docmind/extract"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// Extractor implements extract.Extractor using document loaders for the
// common attachment formats. Unknown mimetypes are treated as UTF-8 text,
// which keeps plain formats (markdown, csv, logs) working without a
// dedicated loader.
type Extractor struct {
	logger *slog.Logger
}

var _ extract.Extractor = (*Extractor)(nil)

// NewExtractor creates a loader-backed extractor.
// A nil logger defaults to slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "extractor")}
}

// ExtractText extracts the text of a document based on its mimetype.
func (e *Extractor) ExtractText(ctx context.Context, content []byte, mimetype string) (string, int, error) {
	switch normalizeMimetype(mimetype) {
	case "application/pdf":
		return e.extractPDF(ctx, content)
	case "text/html":
		return e.extractHTML(ctx, content)
	default:
		return string(content), 0, nil
	}
}

func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, int, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(content), int64(len(content)))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("pdf extraction: %w", err)
	}
	// One loaded document per page.
	return joinDocs(docs), len(docs), nil
}

func (e *Extractor) extractHTML(ctx context.Context, content []byte) (string, int, error) {
	loader := documentloaders.NewHTML(bytes.NewReader(content))
	docs, err := loader.Load(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("html extraction: %w", err)
	}
	return joinDocs(docs), 0, nil
}

func joinDocs(docs []schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.PageContent != "" {
			parts = append(parts, doc.PageContent)
		}
	}
	return strings.Join(parts, "\n\n")
}

// normalizeMimetype strips parameters like "; charset=utf-8".
func normalizeMimetype(mimetype string) string {
	if i := strings.IndexByte(mimetype, ';'); i >= 0 {
		mimetype = mimetype[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimetype))
}
