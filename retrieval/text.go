package retrieval

import "strings"

// Stop words to filter out before scoring
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true, "who": true,
	"how": true, "about": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words and tokens of two characters or fewer
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words and tokens too short to carry meaning
		if len(cleaned) > 2 && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// overlapScore returns the fraction of query tokens present in the
// lowercased segment text, always in [0, 1]. Substring containment is
// intentional: the query token "deploy" matches "deployment".
// An empty query scores every segment 0.
func overlapScore(queryTokens []string, loweredSegment string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	matched := 0
	for _, token := range queryTokens {
		if strings.Contains(loweredSegment, token) {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTokens))
}
