package text

import (
	"strings"
	"unicode"
)

// Split cuts text into chunks of at most size runes, with overlap runes of
// context repeated from the end of the previous chunk. The split is a pure
// function of its inputs: the same text, size, and overlap always produce
// the same chunk boundaries. That determinism matters because a file is
// sliced into pages across separate process invocations, and the Nth chunk
// must be the same bytes on every invocation.
//
// Boundaries prefer whitespace: within the last fifth of a chunk the cut
// moves back to the nearest space so words are not split mid-token. The
// fallback is a hard cut at size runes.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		if trimmed := strings.TrimSpace(text); trimmed == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunk := string(runes[start:])
			if strings.TrimSpace(chunk) != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := boundaryBefore(runes, end, size/5)
		chunk := string(runes[start:cut])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		// Advance relative to the actual cut, not the nominal window, so
		// no text between cut and end is skipped.
		step = cut - overlap - start
		if step <= 0 {
			step = size - overlap
		}
	}

	return chunks
}

// boundaryBefore walks back from end looking for whitespace within window
// runes. Returns end unchanged when none is found.
func boundaryBefore(runes []rune, end, window int) int {
	limit := end - window
	if limit < 0 {
		limit = 0
	}
	for i := end; i > limit; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
