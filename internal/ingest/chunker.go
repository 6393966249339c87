package ingest

import "strings"

// DefaultChunkSize and DefaultChunkOverlap are measured in words.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// SplitIntoChunks slides a word window of chunkSize over text,
// advancing chunkSize-overlap words per step so consecutive chunks
// share overlap words. Text at or under chunkSize words becomes a
// single chunk. Joining a chunk's words always reproduces a contiguous
// run of the input words.
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= chunkSize {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := min(start+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		start = end - overlap
		if start >= len(words)-overlap {
			break
		}
	}
	return chunks
}
