package splitter

import "regexp"

var (
	// paragraphBoundary matches blank-line boundaries between paragraphs.
	paragraphBoundary = regexp.MustCompile(`\n[ \t]*\n+`)

	// sentenceBoundary matches sentence-ending punctuation followed by
	// whitespace; sentences are cut after the whitespace.
	sentenceBoundary = regexp.MustCompile(`[.!?]+[ \t]*\n?[ \t]*`)
)

// hybridSplit splits on paragraph boundaries first. Paragraphs that fit in
// chunkSize are kept whole; oversized paragraphs are broken into sentences
// and greedily packed with the semantic overlap logic, confined to that
// paragraph.
func hybridSplit(text string, chunkSize, chunkOverlap int) []span {
	var out []span
	for _, para := range paragraphSpans(text) {
		if para.len() <= chunkSize {
			out = append(out, para)
			continue
		}
		out = append(out, packSentences(text, para, chunkSize, chunkOverlap)...)
	}
	return out
}

// paragraphSpans returns the spans between blank-line boundaries.
func paragraphSpans(text string) []span {
	var out []span
	start := 0
	for _, m := range paragraphBoundary.FindAllStringIndex(text, -1) {
		if m[0] > start {
			out = append(out, span{start, m[0]})
		}
		start = m[1]
	}
	if start < len(text) {
		out = append(out, span{start, len(text)})
	}
	return out
}

// sentenceSpans cuts a paragraph after each sentence-ending punctuation run.
// Sentences are contiguous and cover the paragraph exactly.
func sentenceSpans(text string, para span) []span {
	var out []span
	start := para.start
	for _, m := range sentenceBoundary.FindAllStringIndex(text[para.start:para.end], -1) {
		end := para.start + m[1]
		if end > start {
			out = append(out, span{start, end})
			start = end
		}
	}
	if start < para.end {
		out = append(out, span{start, para.end})
	}
	return out
}

// packSentences greedily merges a paragraph's sentences into chunks of at
// most chunkSize, seeding each new chunk with an overlap region from the tail
// of the previous one. A sentence that alone exceeds chunkSize falls back to
// a sliding character window.
func packSentences(text string, para span, chunkSize, chunkOverlap int) []span {
	sentences := sentenceSpans(text, para)
	var out []span
	cur := span{para.start, para.start}

	for _, s := range sentences {
		if s.len() > chunkSize {
			if cur.len() > 0 {
				out = append(out, cur)
			}
			out = append(out, fixedSplit(text, s, chunkSize, chunkOverlap)...)
			cur = span{s.end, s.end}
			continue
		}

		if cur.len() > 0 && s.end-cur.start > chunkSize {
			out = append(out, cur)
			start := overlapStart(text, cur, chunkOverlap)
			if budget := chunkSize - s.len(); cur.end-start > budget {
				start = cur.end - budget
				if start > cur.end {
					start = cur.end
				}
			}
			cur = span{start, s.end}
			continue
		}

		cur.end = s.end
	}

	if cur.len() > 0 {
		out = append(out, cur)
	}
	return out
}
