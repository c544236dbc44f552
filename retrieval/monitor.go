package retrieval

import "github.com/poiesic/docmind/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during retrieval.
type RetrievalMonitor interface {
	Start(conversationID, query string)
	AfterConversationLoad(ready []*core.DocumentRecord)
	DocumentScanned(docID core.ID, segments int)
	CacheMiss(docID core.ID)
	Finish(results []*core.ScoredSegment)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                              {}
func (n *noopMonitor) AfterConversationLoad(_ []*core.DocumentRecord) {}
func (n *noopMonitor) DocumentScanned(_ core.ID, _ int)               {}
func (n *noopMonitor) CacheMiss(_ core.ID)                            {}
func (n *noopMonitor) Finish(_ []*core.ScoredSegment)                 {}
