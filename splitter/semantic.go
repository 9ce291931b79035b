package splitter

import "strings"

// separators is the ordered hierarchy for semantic splitting. The search
// always terminates because the list ends in character-level splitting.
var separators = []string{
	"\n\n\n", // section break
	"\n\n",   // paragraph
	"\n",     // line
	". ", "! ", "? ", // sentence
	": ", "; ", ", ", // clause
	" ", // word
	"",  // character
}

// semanticSplit recursively splits the span on the first separator from the
// hierarchy (starting at sepIdx) that occurs in it, then greedily merges the
// parts into chunks of at most chunkSize characters, seeding each new chunk
// with an overlap region taken from the tail of the previous one.
func semanticSplit(text string, sp span, sepIdx int, chunkSize, chunkOverlap int) []span {
	if sp.len() <= chunkSize {
		if sp.len() == 0 {
			return nil
		}
		return []span{sp}
	}

	seg := text[sp.start:sp.end]
	sep := ""
	idx := sepIdx
	for ; idx < len(separators); idx++ {
		if separators[idx] == "" || strings.Contains(seg, separators[idx]) {
			sep = separators[idx]
			break
		}
	}

	if sep == "" {
		// Character-level split always makes progress.
		return fixedSplit(text, sp, chunkSize, chunkOverlap)
	}

	parts := splitOnSeparator(text, sp, sep)
	return mergeParts(text, parts, idx, chunkSize, chunkOverlap)
}

// splitOnSeparator cuts the span at each occurrence of sep. The separator
// stays attached to the end of the preceding part so the parts are contiguous
// and cover the span exactly.
func splitOnSeparator(text string, sp span, sep string) []span {
	var parts []span
	start := sp.start
	for start < sp.end {
		rel := strings.Index(text[start:sp.end], sep)
		if rel < 0 {
			parts = append(parts, span{start, sp.end})
			break
		}
		end := start + rel + len(sep)
		parts = append(parts, span{start, end})
		start = end
	}
	return parts
}

// mergeParts greedily accumulates contiguous parts into chunks. A part that
// alone exceeds chunkSize is recursed into with the next separator; an
// accumulation that would overflow is emitted and the next chunk starts at an
// overlap break point inside the emitted chunk's tail.
func mergeParts(text string, parts []span, sepIdx, chunkSize, chunkOverlap int) []span {
	var out []span
	cur := span{parts[0].start, parts[0].start}

	for _, p := range parts {
		if p.len() > chunkSize {
			if cur.len() > 0 {
				out = append(out, cur)
			}
			out = append(out, semanticSplit(text, p, sepIdx+1, chunkSize, chunkOverlap)...)
			cur = span{p.end, p.end}
			continue
		}

		if cur.len() > 0 && p.end-cur.start > chunkSize {
			out = append(out, cur)
			start := overlapStart(text, cur, chunkOverlap)
			// Shrink the overlap region when it would push the new chunk
			// past chunkSize.
			if budget := chunkSize - p.len(); cur.end-start > budget {
				start = cur.end - budget
				if start > cur.end {
					start = cur.end
				}
			}
			cur = span{start, p.end}
			continue
		}

		cur.end = p.end
	}

	if cur.len() > 0 {
		out = append(out, cur)
	}
	return out
}
