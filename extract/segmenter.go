package extract

import "strings"

// DefaultWordsPerSegment is the default window size for WordSegmenter.
const DefaultWordsPerSegment = 200

// WordSegmenter splits text into fixed-size word windows. It is the default
// segmentation strategy: simple, deterministic and fast.
type WordSegmenter struct {
	wordsPerSegment int
}

var _ Segmenter = (*WordSegmenter)(nil)

// NewWordSegmenter creates a segmenter producing chunks of at most
// wordsPerSegment words. Passes wordsPerSegment <= 0 use the default.
func NewWordSegmenter(wordsPerSegment int) *WordSegmenter {
	if wordsPerSegment <= 0 {
		wordsPerSegment = DefaultWordsPerSegment
	}
	return &WordSegmenter{wordsPerSegment: wordsPerSegment}
}

// Segment splits text into ordered word-window chunks covering the text.
// Whitespace-only input yields an empty slice.
func (s *WordSegmenter) Segment(text string) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}, nil
	}

	chunks := make([]string, 0, (len(words)+s.wordsPerSegment-1)/s.wordsPerSegment)
	for start := 0; start < len(words); start += s.wordsPerSegment {
		end := start + s.wordsPerSegment
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks, nil
}
