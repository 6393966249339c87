package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordsText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplitIntoChunks_Empty(t *testing.T) {
	assert.Nil(t, SplitIntoChunks("", 500, 50))
	assert.Nil(t, SplitIntoChunks("   \n\t ", 500, 50))
}

func TestSplitIntoChunks_UnderWindow(t *testing.T) {
	chunks := SplitIntoChunks(wordsText(300), 500, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, 300, len(strings.Fields(chunks[0])))
}

func TestSplitIntoChunks_ExactWindow(t *testing.T) {
	chunks := SplitIntoChunks(wordsText(500), 500, 50)
	require.Len(t, chunks, 1)
}

func TestSplitIntoChunks_TwelveHundredWords(t *testing.T) {
	chunks := SplitIntoChunks(wordsText(1200), 500, 50)
	require.Len(t, chunks, 3)

	// Windows: [0,500), [450,950), [900,1200).
	assert.Equal(t, 500, len(strings.Fields(chunks[0])))
	assert.Equal(t, 500, len(strings.Fields(chunks[1])))
	assert.Equal(t, 300, len(strings.Fields(chunks[2])))

	first := strings.Fields(chunks[1])[0]
	assert.Equal(t, "w450", first)
	assert.Equal(t, "w900", strings.Fields(chunks[2])[0])
}

func TestSplitIntoChunks_OverlapSharedBetweenNeighbors(t *testing.T) {
	chunks := SplitIntoChunks(wordsText(1000), 500, 50)
	require.GreaterOrEqual(t, len(chunks), 2)

	prev := strings.Fields(chunks[0])
	next := strings.Fields(chunks[1])
	assert.Equal(t, prev[len(prev)-50:], next[:50])
}

func TestSplitIntoChunks_ReconstructsInput(t *testing.T) {
	text := wordsText(1200)
	words := strings.Fields(text)
	chunks := SplitIntoChunks(text, 500, 50)

	// Dropping each chunk's leading overlap (after the first) and
	// concatenating must reproduce the input exactly.
	var rebuilt []string
	for i, c := range chunks {
		cw := strings.Fields(c)
		if i > 0 {
			cw = cw[50:]
		}
		rebuilt = append(rebuilt, cw...)
	}
	assert.Equal(t, words, rebuilt)
}
