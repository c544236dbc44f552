package extract

import "github.com/tmc/langchaingo/textsplitter"

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1200

	// DefaultChunkOverlap keeps adjacent chunks sharing a little context so
	// sentences cut at a boundary stay retrievable.
	DefaultChunkOverlap = 150
)

// SplitterSegmenter is a sentence-boundary-aware alternative to
// WordSegmenter, backed by a recursive character splitter. Chunk sizes are
// measured in characters.
type SplitterSegmenter struct {
	splitter textsplitter.RecursiveCharacter
}

var _ Segmenter = (*SplitterSegmenter)(nil)

// NewSplitterSegmenter creates a segmenter producing chunks of roughly
// chunkSize characters with the given overlap between adjacent chunks.
func NewSplitterSegmenter(chunkSize, chunkOverlap int) (*SplitterSegmenter, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	return &SplitterSegmenter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}, nil
}

// Segment splits text along natural boundaries where possible.
func (s *SplitterSegmenter) Segment(text string) ([]string, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	// The splitter can emit empty chunks for degenerate input; drop them to
	// honor the non-empty contract.
	filtered := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk != "" {
			filtered = append(filtered, chunk)
		}
	}
	return filtered, nil
}
