package blocks

import (
	"regexp"
	"strings"
)

// headingLineRe matches a heading of one to five hash marks. Six-hash
// headings do not satisfy the headers-only filter.
var headingLineRe = regexp.MustCompile(`^#{1,5}\s`)

// HeadersOnlyStrategy keeps only blocks that contain at least one Markdown
// heading.
//
// Its end scan is simpler than DefaultStrategy's: the first literal "---"
// occurrence after the match ends the block, with no table-separator
// disambiguation. Callers relying on table-aware rule detection must use
// the default strategy.
type HeadersOnlyStrategy struct{}

// DetermineBoundary implements Strategy.
func (HeadersOnlyStrategy) DetermineBoundary(text string, m ReferenceMatch, noteName string) (Boundary, error) {
	if err := checkMatch(text, m); err != nil {
		return Boundary{}, err
	}
	start := lineStart(text, m.MatchIndex)
	rule := -1
	if i := strings.Index(text[m.MatchIndex:], "---"); i >= 0 {
		rule = m.MatchIndex + i
	}
	next := nextExactReference(text, noteName, m.MatchIndex+1)
	end := earliest(rule, next)
	if end < 0 {
		end = len(text)
	}
	return Boundary{Start: start, End: end}, nil
}

// IsValidBlock implements Strategy: at least one line of the slice must be a
// one-to-five hash heading.
func (HeadersOnlyStrategy) IsValidBlock(text string, b Boundary) bool {
	for _, line := range strings.Split(text[b.Start:b.End], "\n") {
		if headingLineRe.MatchString(line) {
			return true
		}
	}
	return false
}
