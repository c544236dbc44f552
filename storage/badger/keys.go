package badger

import (
	"fmt"

	"github.com/poiesic/docmind/core"
)

// Key prefixes for different data types
const (
	conversationPrefix = "convo"
	segmentsPrefix     = "segs"
)

// makeConversationKey generates a key for a conversation aggregate.
func makeConversationKey(conversationID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", conversationPrefix, conversationID))
}

// conversationIDFromKey recovers the conversation ID from an aggregate key.
func conversationIDFromKey(key []byte) string {
	return string(key[len(conversationPrefix)+1:])
}

// makeSegmentsKey generates a key for a document's cached segment list.
func makeSegmentsKey(docID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", segmentsPrefix, docID))
}
