package splitter

// fixedSplit slides a character window of chunkSize over the span, advancing
// by chunkSize-chunkOverlap each step. The final window may be shorter; the
// slide stops once a window reaches the end of the span.
// Whitespace-only windows are dropped later by materialize.
func fixedSplit(text string, sp span, chunkSize, chunkOverlap int) []span {
	step := chunkSize - chunkOverlap
	if step < 1 {
		step = 1
	}

	var out []span
	for start := sp.start; start < sp.end; start += step {
		end := start + chunkSize
		if end > sp.end {
			end = sp.end
		}
		out = append(out, span{start, end})
		if end == sp.end {
			break
		}
	}
	return out
}
