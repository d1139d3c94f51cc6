// Package chunker splits raw log text into overlapping fixed-size windows
// for independent embedding.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/crashlens/crashlens/internal/domain"
)

// Default window parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried in order when looking for a natural cut point:
// paragraph, line, word. A hard character cut is the last resort.
var separators = []string{"\n\n", "\n", " "}

// Chunker produces ordered, overlapping chunks no longer than size
// characters. Consecutive chunks share exactly overlap characters except
// at the document boundary.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. overlap must be smaller than size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidChunkConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf(
			"%w: overlap %d must be in [0, %d)", domain.ErrInvalidChunkConfig, overlap, size,
		)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts text into chunks for the given source, assigning sequence
// indexes in document order. A document shorter than the chunk size yields
// exactly one chunk.
func (c *Chunker) Split(text, source string) []domain.Chunk {
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []domain.Chunk{{Content: text, Source: source, Index: 0}}
	}

	var chunks []domain.Chunk
	start := 0
	for start < len(text) {
		if start+c.size >= len(text) {
			chunks = append(chunks, domain.Chunk{
				Content: text[start:],
				Source:  source,
				Index:   len(chunks),
			})
			break
		}

		cut := c.cutPoint(text, start)
		chunks = append(chunks, domain.Chunk{
			Content: text[start:cut],
			Source:  source,
			Index:   len(chunks),
		})

		next := snapToRuneStart(text, cut-c.overlap)
		if next <= start {
			// Chunk shorter than the overlap window; step past it to
			// guarantee forward progress.
			next = cut
		}
		start = next
	}

	return chunks
}

// cutPoint returns the end offset of the chunk starting at start. It
// prefers the rightmost natural boundary inside the window, falling back
// from paragraph to line to word, and finally to a hard cut at the size
// limit. A boundary is only usable if it leaves the chunk longer than the
// overlap, otherwise the next chunk could not advance.
func (c *Chunker) cutPoint(text string, start int) int {
	limit := snapToRuneStart(text, start+c.size)

	for _, sep := range separators {
		idx := strings.LastIndex(text[start:limit], sep)
		if idx < 0 {
			continue
		}
		cut := start + idx + len(sep)
		if cut > start+c.overlap {
			return cut
		}
	}

	return limit
}

// snapToRuneStart moves a byte offset left to the nearest rune boundary so
// hard cuts and overlap steps never split a multibyte character.
func snapToRuneStart(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
