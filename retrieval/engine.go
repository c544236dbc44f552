package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/docmind/core"
	"github.com/poiesic/docmind/storage"
)

// DefaultMaxSegments is the result cap applied when Options leaves
// MaxSegments unset.
const DefaultMaxSegments = 5

// Engine selects relevant segments from a conversation's READY documents.
type Engine struct {
	conversations storage.ConversationRepository
	cache         storage.SegmentCache
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new retrieval engine.
func NewEngine(
	conversations storage.ConversationRepository,
	cache storage.SegmentCache,
	opts ...Option,
) (*Engine, error) {
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if cache == nil {
		return nil, ErrSegmentCacheRequired
	}

	e := &Engine{
		conversations: conversations,
		cache:         cache,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Options narrows a retrieval call.
type Options struct {
	// TargetDocs restricts candidates to documents whose name or decimal ID
	// matches an entry. Empty means all READY documents.
	TargetDocs []string

	// MaxSegments caps the result. Zero or negative applies
	// DefaultMaxSegments.
	MaxSegments int
}

// Result is the outcome of one retrieval call.
type Result struct {
	// Segments holds the top-scoring segments, best first.
	Segments []*core.ScoredSegment

	// Message is a human-readable note when no segments could be considered,
	// such as an unknown conversation or no READY documents. Empty when
	// candidates existed, even if none scored above zero.
	Message string
}

// Retrieve scores the conversation's cached segments against the query.
// Returns up to MaxSegments results, ranked by relevance score.
func (e *Engine) Retrieve(ctx context.Context, conversationID, query string, opts Options) (*Result, error) {
	return e.RetrieveWithMonitor(ctx, conversationID, query, opts, nil)
}

// RetrieveWithMonitor scores the conversation's cached segments against the
// query with monitoring. The monitor receives callbacks at each stage.
func (e *Engine) RetrieveWithMonitor(ctx context.Context, conversationID, query string, opts Options, monitor RetrievalMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(conversationID, query)

	maxSegments := opts.MaxSegments
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}

	conv, err := e.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Unknown conversation reads as zero attached documents.
			result := &Result{Segments: []*core.ScoredSegment{}, Message: "no documents attached"}
			monitor.Finish(result.Segments)
			return result, nil
		}
		return nil, err
	}

	ready := conv.ReadyDocuments()
	if len(opts.TargetDocs) > 0 {
		ready = filterTargets(ready, opts.TargetDocs)
	}
	monitor.AfterConversationLoad(ready)

	if len(ready) == 0 {
		message := "no documents attached"
		if len(conv.Documents()) > 0 {
			message = "no documents ready"
		}
		result := &Result{Segments: []*core.ScoredSegment{}, Message: message}
		monitor.Finish(result.Segments)
		return result, nil
	}

	queryTokens := tokenizeAndFilter(query)

	// docOrder preserves attach order for deterministic tie-breaking.
	docOrder := make(map[core.ID]int, len(ready))
	scored := make([]*core.ScoredSegment, 0, len(ready)*4)

	for position, record := range ready {
		docOrder[record.DocID] = position

		segments, err := e.cache.GetSegments(ctx, record.DocID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Expired or evicted; the resegment sweep rebuilds it.
				e.logger.Warn("segment cache miss for ready document",
					"conversation", conversationID, "doc", record.DocID, "name", record.Name)
				monitor.CacheMiss(record.DocID)
				continue
			}
			return nil, err
		}
		monitor.DocumentScanned(record.DocID, len(segments))

		for _, segment := range segments {
			scored = append(scored, &core.ScoredSegment{
				Segment: segment,
				DocName: record.Name,
				Score:   overlapScore(queryTokens, strings.ToLower(segment.Text)),
			})
		}
	}

	// Sort by score descending; ties resolve by attach order, then by
	// position within the document.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if docOrder[scored[i].DocID] != docOrder[scored[j].DocID] {
			return docOrder[scored[i].DocID] < docOrder[scored[j].DocID]
		}
		return scored[i].Index < scored[j].Index
	})

	if len(scored) > maxSegments {
		scored = scored[:maxSegments]
	}

	monitor.Finish(scored)
	return &Result{Segments: scored}, nil
}

// filterTargets keeps records whose name or decimal ID appears in targets.
func filterTargets(records []*core.DocumentRecord, targets []string) []*core.DocumentRecord {
	wanted := make(map[string]bool, len(targets))
	for _, target := range targets {
		wanted[target] = true
	}

	filtered := make([]*core.DocumentRecord, 0, len(records))
	for _, record := range records {
		if wanted[record.Name] || wanted[strconv.FormatUint(uint64(record.DocID), 10)] {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
