package blocks

// DefaultStrategy is the general-purpose boundary policy: a block runs from
// the start of the reference line to the next horizontal rule or the next
// repeated reference, whichever comes first, falling back to the end of the
// document. Every candidate block is accepted.
type DefaultStrategy struct{}

// DetermineBoundary implements Strategy. The forward scan never crosses a
// horizontal rule or another exact [[noteName]] occurrence.
func (DefaultStrategy) DetermineBoundary(text string, m ReferenceMatch, noteName string) (Boundary, error) {
	if err := checkMatch(text, m); err != nil {
		return Boundary{}, err
	}
	start := lineStart(text, m.MatchIndex)
	rule := nextHorizontalRule(text, m.MatchIndex)
	next := nextExactReference(text, noteName, m.MatchIndex+1)
	end := earliest(rule, next)
	if end < 0 {
		end = len(text)
	}
	return Boundary{Start: start, End: end}, nil
}

// IsValidBlock implements Strategy; the default strategy keeps every block.
func (DefaultStrategy) IsValidBlock(string, Boundary) bool { return true }
