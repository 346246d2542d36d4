package blocks

import "strings"

// TopLineStrategy restricts each block to exactly the single line containing
// the reference.
type TopLineStrategy struct{}

// DetermineBoundary implements Strategy. The terminating newline is excluded;
// a reference on the final line of a document without a trailing newline runs
// to the end of the text.
func (TopLineStrategy) DetermineBoundary(text string, m ReferenceMatch, _ string) (Boundary, error) {
	if err := checkMatch(text, m); err != nil {
		return Boundary{}, err
	}
	start := lineStart(text, m.MatchIndex)
	end := len(text)
	if i := strings.IndexByte(text[m.MatchIndex:], '\n'); i >= 0 {
		end = m.MatchIndex + i
	}
	return Boundary{Start: start, End: end}, nil
}

// IsValidBlock implements Strategy; every single-line block is kept.
func (TopLineStrategy) IsValidBlock(string, Boundary) bool { return true }
