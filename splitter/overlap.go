package splitter

import "strings"

// overlapBreaks orders the break-point classes searched when extracting an
// overlap region: paragraph > line > sentence > clause > word.
var overlapBreaks = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{": ", "; ", ", "},
	{" "},
}

// overlapStart returns the offset where the next chunk's overlap region
// begins, looking back at most chunkOverlap characters from the end of the
// emitted chunk. It prefers the rightmost break of the highest-priority class
// within that window; if no break exists it falls back to a hard character
// cut at the window start. For a positive chunkOverlap the returned offset is
// always < emitted.end, so the overlap region is non-empty.
func overlapStart(text string, emitted span, chunkOverlap int) int {
	if chunkOverlap <= 0 {
		return emitted.end
	}

	windowStart := emitted.end - chunkOverlap
	if windowStart < emitted.start {
		windowStart = emitted.start
	}
	// Exclude the final character so a break at the very end cannot produce
	// an empty overlap region.
	window := text[windowStart : emitted.end-1]

	for _, class := range overlapBreaks {
		best := -1
		for _, sep := range class {
			if idx := strings.LastIndex(window, sep); idx >= 0 && idx+len(sep) > best {
				best = idx + len(sep)
			}
		}
		if best >= 0 {
			return windowStart + best
		}
	}

	return windowStart
}
