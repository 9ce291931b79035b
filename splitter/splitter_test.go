package splitter

import (
	"strings"
	"testing"

	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStrategies = []core.ChunkStrategy{
	core.StrategySemantic,
	core.StrategyFixed,
	core.StrategyHybrid,
}

func TestSplitValidation(t *testing.T) {
	_, err := Split("some text", 0, 0, core.StrategyFixed)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidChunkSize)
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	_, err = Split("some text", 100, 100, core.StrategyFixed)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidOverlap)

	_, err = Split("some text", 100, -1, core.StrategyFixed)
	assert.ErrorIs(t, err, core.ErrInvalidOverlap)

	_, err = Split("some text", 100, 10, core.ChunkStrategy("recursive"))
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)
}

func TestSplitEmptyInput(t *testing.T) {
	for _, strategy := range allStrategies {
		pieces, err := Split("", 100, 10, strategy)
		require.NoError(t, err)
		assert.Empty(t, pieces, "strategy %s", strategy)

		pieces, err = Split("   \n\t  \n ", 100, 10, strategy)
		require.NoError(t, err)
		assert.Empty(t, pieces, "strategy %s", strategy)
	}
}

func TestSplitSingleChunk(t *testing.T) {
	text := "A short paragraph that fits in one chunk."
	for _, strategy := range allStrategies {
		pieces, err := Split(text, 100, 10, strategy)
		require.NoError(t, err)
		require.Len(t, pieces, 1, "strategy %s", strategy)
		assert.Equal(t, 0, pieces[0].StartIndex)
		assert.Equal(t, len(text), pieces[0].EndIndex)
		assert.Equal(t, text, pieces[0].Content)
	}
}

func TestSplitOffsetsWithinBounds(t *testing.T) {
	texts := []string{
		strings.Repeat("word and more text. ", 200),
		"One paragraph.\n\nAnother paragraph that is quite a bit longer than the first one, honestly.\n\n\nThird.",
		strings.Repeat("x", 997),
	}

	for _, text := range texts {
		for _, strategy := range allStrategies {
			pieces, err := Split(text, 120, 30, strategy)
			require.NoError(t, err)
			require.NotEmpty(t, pieces)

			prevStart, prevEnd := -1, -1
			for i, p := range pieces {
				assert.GreaterOrEqual(t, p.StartIndex, 0)
				assert.LessOrEqual(t, p.EndIndex, len(text))
				assert.Less(t, p.StartIndex, p.EndIndex)
				assert.NotEmpty(t, p.Content)

				// Offsets are monotonically non-decreasing.
				assert.GreaterOrEqual(t, p.StartIndex, prevStart, "piece %d, strategy %s", i, strategy)
				assert.GreaterOrEqual(t, p.EndIndex, prevEnd, "piece %d, strategy %s", i, strategy)
				prevStart, prevEnd = p.StartIndex, p.EndIndex
			}
		}
	}
}

func TestSplitChunkSizeRespected(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 300)
	for _, strategy := range allStrategies {
		pieces, err := Split(text, 150, 40, strategy)
		require.NoError(t, err)
		for i, p := range pieces {
			assert.LessOrEqual(t, p.EndIndex-p.StartIndex, 150, "piece %d, strategy %s", i, strategy)
		}
	}
}

func TestFixedWindowCount(t *testing.T) {
	// 2000 characters, size 500, overlap 75 -> step 425 -> windows at
	// 0, 425, 850, 1275, 1700; the last reaches the end and is shorter.
	text := strings.Repeat("abcdefghij", 200)
	require.Len(t, text, 2000)

	pieces, err := Split(text, 500, 75, core.StrategyFixed)
	require.NoError(t, err)
	require.Len(t, pieces, 5)

	for i, p := range pieces {
		assert.Equal(t, i*425, p.StartIndex)
	}
	last := pieces[len(pieces)-1]
	assert.Equal(t, 2000, last.EndIndex)
	assert.Less(t, last.EndIndex-last.StartIndex, 500)
}

func TestFixedDropsWhitespaceWindows(t *testing.T) {
	text := "start" + strings.Repeat(" ", 50) + "end"
	pieces, err := Split(text, 10, 0, core.StrategyFixed)
	require.NoError(t, err)

	for _, p := range pieces {
		assert.NotEmpty(t, strings.TrimSpace(p.Content))
	}
	// The middle windows are whitespace-only and must be dropped.
	assert.Len(t, pieces, 2)
}

func TestSemanticOverlapLaw(t *testing.T) {
	// Sentences of ~40 chars force merge-overflow splits at size 100.
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("The quick brown fox jumps over a lazy dog. ")
	}
	text := b.String()

	pieces, err := Split(text, 100, 30, core.StrategySemantic)
	require.NoError(t, err)
	require.Greater(t, len(pieces), 1)

	for i := 1; i < len(pieces); i++ {
		overlap := pieces[i-1].EndIndex - pieces[i].StartIndex
		assert.Greater(t, overlap, 0, "consecutive chunks %d/%d share no overlap", i-1, i)
		assert.LessOrEqual(t, overlap, 30)
	}
}

func TestSemanticPrefersParagraphBoundaries(t *testing.T) {
	text := "First paragraph with some words in it.\n\nSecond paragraph, also with words.\n\nThird one here."
	pieces, err := Split(text, 45, 10, core.StrategySemantic)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(pieces), 2)

	// No chunk starts or ends in the middle of a word right at a paragraph
	// boundary: each piece content should line up with paragraph text.
	assert.Equal(t, "First paragraph with some words in it.", pieces[0].Content)
}

func TestSemanticNoSeparatorsFallsBackToCharacters(t *testing.T) {
	text := strings.Repeat("a", 1000)
	pieces, err := Split(text, 100, 20, core.StrategySemantic)
	require.NoError(t, err)
	require.NotEmpty(t, pieces)
	for _, p := range pieces {
		assert.LessOrEqual(t, p.EndIndex-p.StartIndex, 100)
	}
	assert.Equal(t, 1000, pieces[len(pieces)-1].EndIndex)
}

func TestSemanticForwardProgressWithDegenerateOverlap(t *testing.T) {
	// size-overlap < 1 must be clamped internally, never loop forever.
	text := strings.Repeat("ab cd ef gh ij. ", 50)
	pieces, err := Split(text, 10, 9, core.StrategySemantic)
	require.NoError(t, err)
	assert.NotEmpty(t, pieces)
}

func TestHybridKeepsSmallParagraphsWhole(t *testing.T) {
	text := "Short first paragraph.\n\nShort second paragraph.\n\nShort third."
	pieces, err := Split(text, 400, 50, core.StrategyHybrid)
	require.NoError(t, err)
	// Whole text fits in one chunk.
	require.Len(t, pieces, 1)

	pieces, err = Split(text+strings.Repeat("\n\nPadding paragraph to exceed a single chunk.", 10), 60, 10, core.StrategyHybrid)
	require.NoError(t, err)
	assert.Equal(t, "Short first paragraph.", pieces[0].Content)
	assert.Equal(t, "Short second paragraph.", pieces[1].Content)
}

func TestHybridSplitsOversizedParagraphIntoSentences(t *testing.T) {
	para := strings.Repeat("A sentence of modest length sits here. ", 10)
	text := "Tiny intro.\n\n" + para

	pieces, err := Split(text, 100, 20, core.StrategyHybrid)
	require.NoError(t, err)
	require.Greater(t, len(pieces), 2)

	assert.Equal(t, "Tiny intro.", pieces[0].Content)
	for i, p := range pieces {
		assert.LessOrEqual(t, p.EndIndex-p.StartIndex, 100, "piece %d", i)
	}
	// Sentence packing stays within the paragraph.
	for _, p := range pieces[1:] {
		assert.GreaterOrEqual(t, p.StartIndex, len("Tiny intro.\n\n"))
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Deterministic output matters for idempotent pipelines. ", 40)
	for _, strategy := range allStrategies {
		first, err := Split(text, 130, 25, strategy)
		require.NoError(t, err)
		second, err := Split(text, 130, 25, strategy)
		require.NoError(t, err)
		assert.Equal(t, first, second, "strategy %s", strategy)
	}
}

func TestPieceContentTrimmedOffsetsUntrimmed(t *testing.T) {
	text := "  padded start\n\nand a second paragraph that runs long enough to split  "
	pieces, err := Split(text, 40, 5, core.StrategySemantic)
	require.NoError(t, err)
	require.NotEmpty(t, pieces)

	first := pieces[0]
	assert.Equal(t, "padded start", first.Content)
	// Offsets cover the untrimmed span including leading whitespace.
	assert.Equal(t, 0, first.StartIndex)
	assert.GreaterOrEqual(t, first.EndIndex-first.StartIndex, len(first.Content))
}
