// Package textsplitter splits raw corpus text into overlapping
// bounded-length chunks on word and sentence boundaries.
package textsplitter

import (
	"strings"

	"github.com/fluakademi/coursebot/internal"
)

var log = internal.GetLogger()

// boundary characters we prefer to cut on, scanning backward from the
// proposed window end.
func isBoundary(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '.', '!', '?':
		return true
	}
	return false
}

// CreateChunks walks text in windows of size bytes, cutting each window
// at the nearest preceding boundary character when one exists within the
// window. Chunks are whitespace-trimmed and empty chunks are dropped.
// Consecutive windows overlap by overlap bytes. The next window start is
// always strictly after the previous one, so the walk terminates for any
// input.
func CreateChunks(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		log.Warnf("invalid chunker parameters size=%d overlap=%d", size, overlap)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + size

		if end < len(text) {
			// scan backward for a boundary; bounded by start so the
			// scan always terminates
			cut := end
			for cut > start && !isBoundary(text[cut]) {
				cut--
			}
			if cut == start {
				// no boundary within the window, force the cut
				cut = end
			}
			end = cut
		} else {
			end = len(text)
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			// guarantee forward progress
			next = end
		}
		start = next
	}

	return chunks
}
