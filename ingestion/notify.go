package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/docmind/core"
)

// Notifier receives out-of-band signals for the conversation/streaming
// collaborator: an acceptance summary right after ingestion, and later
// status notifications as documents become READY or FAILED. These are
// fire-and-forget UI signals, not required for correctness of retrieval,
// which always re-reads current state.
type Notifier interface {
	IngestionAccepted(ctx context.Context, conversationID string, result *IngestResult)
	DocumentReady(ctx context.Context, conversationID string, record *core.DocumentRecord)
	DocumentFailed(ctx context.Context, conversationID string, record *core.DocumentRecord)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

var _ Notifier = (*NopNotifier)(nil)

func (NopNotifier) IngestionAccepted(_ context.Context, _ string, _ *IngestResult)     {}
func (NopNotifier) DocumentReady(_ context.Context, _ string, _ *core.DocumentRecord)  {}
func (NopNotifier) DocumentFailed(_ context.Context, _ string, _ *core.DocumentRecord) {}

// LogNotifier logs every notification. It is the default when no streaming
// collaborator is attached.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier writing to logger.
// A nil logger defaults to slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) IngestionAccepted(_ context.Context, conversationID string, result *IngestResult) {
	n.logger.Info("ingestion accepted",
		"conversation", conversationID,
		"ingested", len(result.Ingested),
		"failed", len(result.Failed))
}

func (n *LogNotifier) DocumentReady(_ context.Context, conversationID string, record *core.DocumentRecord) {
	n.logger.Info("document ready",
		"conversation", conversationID,
		"doc", record.DocID,
		"name", record.Name,
		"segments", record.SegmentsCount)
}

func (n *LogNotifier) DocumentFailed(_ context.Context, conversationID string, record *core.DocumentRecord) {
	n.logger.Warn("document failed",
		"conversation", conversationID,
		"doc", record.DocID,
		"name", record.Name,
		"error", record.Error)
}
