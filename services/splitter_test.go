package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextReturnsSingleChunk(t *testing.T) {
	s := NewRecursiveSplitter(1000, 100)
	chunks := s.Split("just a short note")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short note", chunks[0])
}

func TestSplitEmptyAndWhitespaceReturnsNothing(t *testing.T) {
	s := NewRecursiveSplitter(1000, 100)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\n\t  "))
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	p1 := strings.Repeat("alpha ", 100)
	p2 := strings.Repeat("bravo ", 100)
	text := strings.TrimSpace(p1) + "\n\n" + strings.TrimSpace(p2)

	s := NewRecursiveSplitter(1000, 100)
	chunks := s.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.TrimSpace(p1), chunks[0])
	assert.Equal(t, strings.TrimSpace(p2), chunks[1])
}

func TestSplitRespectsChunkSize(t *testing.T) {
	var sentences []string
	for i := 0; i < 15; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %02d has exactly this many words in it padded %02d", i, i))
	}
	text := strings.Join(sentences, ". ") + "."

	s := NewRecursiveSplitter(300, 60)
	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 300, "chunk exceeds target size: %q", chunk)
	}
}

func TestSplitCarriesOverlapBetweenChunks(t *testing.T) {
	var words []string
	for i := 0; i < 20; i++ {
		words = append(words, fmt.Sprintf("word%05d", i))
	}
	text := strings.Join(words, " ")

	s := NewRecursiveSplitter(50, 20)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], first,
			"chunk %d does not start with overlap from chunk %d", i, i-1)
	}
}

func TestSplitNeverCutsWordsWhenSpacesExist(t *testing.T) {
	var words []string
	for i := 0; i < 40; i++ {
		words = append(words, fmt.Sprintf("token%03d", i))
	}
	text := strings.Join(words, " ")

	s := NewRecursiveSplitter(60, 10)
	for _, chunk := range s.Split(text) {
		for _, w := range strings.Fields(chunk) {
			assert.Regexp(t, `^token\d{3}$`, w, "word was cut mid-way")
		}
	}
}

func TestSplitHardCutsUnbrokenText(t *testing.T) {
	text := strings.Repeat("a", 120)

	s := NewRecursiveSplitter(50, 10)
	chunks := s.Split(text)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
	}
	// Fixed-window overlap between consecutive cuts
	assert.Equal(t, chunks[0][40:], chunks[1][:10])
}

func TestSplitKeepsAllContent(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, fmt.Sprintf("item%04d", i))
	}
	text := strings.Join(words, " ")

	s := NewRecursiveSplitter(80, 20)
	joined := strings.Join(s.Split(text), " ")
	for _, w := range words {
		assert.Contains(t, joined, w)
	}
}
