package ingest

import "strings"

// ChunkDocument splits a document's sections into passages of at most
// maxRunes runes, overlapping consecutive passages by overlap runes so
// figures near a split survive in at least one passage whole. Splits
// prefer paragraph then line boundaries.
func ChunkDocument(doc *Document, maxRunes, overlap int) []Chunk {
	if maxRunes <= 0 {
		maxRunes = 1200
	}
	if overlap < 0 || overlap >= maxRunes {
		overlap = 0
	}

	var chunks []Chunk
	idx := 0
	for _, sec := range doc.Sections {
		for _, piece := range splitText(sec.Text, maxRunes, overlap) {
			chunks = append(chunks, Chunk{
				Source:  doc.Name,
				Section: sec.Title,
				Content: piece,
				Index:   idx,
			})
			idx++
		}
	}
	return chunks
}

func splitText(text string, maxRunes, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return []string{text}
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + maxRunes
		if end >= len(runes) {
			out = append(out, strings.TrimSpace(string(runes[start:])))
			break
		}
		cut := findBreak(runes, start, end)
		out = append(out, strings.TrimSpace(string(runes[start:cut])))
		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	// Drop empties produced by aggressive trimming.
	kept := out[:0]
	for _, s := range out {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

// findBreak looks backwards from end for a paragraph break, then a
// newline, then a space; falls back to a hard cut.
func findBreak(runes []rune, start, end int) int {
	floor := start + (end-start)/2
	for i := end; i > floor; i-- {
		if i < len(runes)-1 && runes[i] == '\n' && runes[i+1] == '\n' {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}
