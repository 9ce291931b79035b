package splitter

import (
	"strings"

	"github.com/shakedshoshan/RAGify-sub000/core"
)

// Piece is one segment of a split source text.
//
// Content is trimmed of leading and trailing whitespace; StartIndex and
// EndIndex refer to the untrimmed span within the source, so the span length
// may exceed len(Content).
type Piece struct {
	Content    string
	StartIndex int
	EndIndex   int
}

// span is a half-open [start, end) range into the source text.
type span struct {
	start int
	end   int
}

func (s span) len() int {
	return s.end - s.start
}

// Split segments text into ordered, overlapping pieces under the given
// strategy. chunkSize must be positive and chunkOverlap must satisfy
// 0 <= chunkOverlap < chunkSize.
//
// Empty or whitespace-only input yields zero pieces. When the whole text fits
// in a single chunk, exactly one piece spanning the full text is returned.
func Split(text string, chunkSize, chunkOverlap int, strategy core.ChunkStrategy) ([]Piece, error) {
	if err := core.ValidateSplitParams(chunkSize, chunkOverlap); err != nil {
		return nil, core.Validation("splitter.Split", err)
	}
	if err := core.ValidateStrategy(strategy); err != nil {
		return nil, core.Validation("splitter.Split", err)
	}

	// Forward progress guard: the effective step must be at least one
	// character even if the caller passed a degenerate overlap.
	if chunkSize-chunkOverlap < 1 {
		chunkOverlap = chunkSize - 1
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	whole := span{0, len(text)}
	if whole.len() <= chunkSize {
		return materialize(text, []span{whole}), nil
	}

	var spans []span
	switch strategy {
	case core.StrategyFixed:
		spans = fixedSplit(text, whole, chunkSize, chunkOverlap)
	case core.StrategyHybrid:
		spans = hybridSplit(text, chunkSize, chunkOverlap)
	default:
		spans = semanticSplit(text, whole, 0, chunkSize, chunkOverlap)
	}

	return materialize(text, spans), nil
}

// materialize converts spans to pieces, trimming contents and dropping spans
// that are empty after trimming.
func materialize(text string, spans []span) []Piece {
	pieces := make([]Piece, 0, len(spans))
	for _, sp := range spans {
		content := strings.TrimSpace(text[sp.start:sp.end])
		if content == "" {
			continue
		}
		pieces = append(pieces, Piece{
			Content:    content,
			StartIndex: sp.start,
			EndIndex:   sp.end,
		})
	}
	return pieces
}
