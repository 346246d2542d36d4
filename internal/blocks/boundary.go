package blocks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidMatch signals that a reference match reached a strategy with an
// offset outside the text it was scanned from. That means the scanner and
// strategy have become inconsistent with each other, so it is raised as a
// hard error rather than swallowed.
var ErrInvalidMatch = errors.New("blocks: reference match out of range")

// Boundary is a half-open character range [Start, End) into the source text.
// Start always falls on the first character of a line.
type Boundary struct {
	Start int
	End   int
}

// Strategy decides where a block around one reference begins and ends, and
// whether the resulting block is worth keeping.
type Strategy interface {
	// DetermineBoundary computes the block boundary for one reference match.
	// Start is always snapped to the beginning of the line containing the
	// match.
	DetermineBoundary(text string, m ReferenceMatch, noteName string) (Boundary, error)
	// IsValidBlock reports whether the slice text[b.Start:b.End] should be
	// kept.
	IsValidBlock(text string, b Boundary) bool
}

// checkMatch enforces the scanner/strategy contract.
func checkMatch(text string, m ReferenceMatch) error {
	if m.MatchIndex < 0 || m.MatchIndex+len(m.MatchText) > len(text) {
		return fmt.Errorf("%w: index %d, match %q, text length %d",
			ErrInvalidMatch, m.MatchIndex, m.MatchText, len(text))
	}
	return nil
}

// lineStart returns the offset of the first character of the line containing
// offset i.
func lineStart(text string, i int) int {
	return strings.LastIndexByte(text[:i], '\n') + 1
}

var horizontalRuleRe = regexp.MustCompile(`^-{3,}$`)

// nextHorizontalRule returns the offset of the start of the first horizontal
// rule line after the line containing from, or -1 if there is none. A rule is
// a line that trims to three or more hyphens and nothing else; lines
// containing "|" are table separator rows and never count.
func nextHorizontalRule(text string, from int) int {
	nl := strings.IndexByte(text[from:], '\n')
	if nl < 0 {
		return -1
	}
	pos := from + nl + 1
	for pos <= len(text) {
		end := strings.IndexByte(text[pos:], '\n')
		line := text[pos:]
		if end >= 0 {
			line = text[pos : pos+end]
		}
		if !strings.Contains(line, "|") && horizontalRuleRe.MatchString(strings.TrimSpace(line)) {
			return pos
		}
		if end < 0 {
			break
		}
		pos += end + 1
	}
	return -1
}

// nextExactReference returns the offset of the next literal, unaliased
// [[noteName]] at or after from, or -1.
func nextExactReference(text, noteName string, from int) int {
	if from > len(text) {
		return -1
	}
	i := strings.Index(text[from:], "[["+noteName+"]]")
	if i < 0 {
		return -1
	}
	return from + i
}

// earliest picks the smaller of two offsets, treating -1 as "not found".
func earliest(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}
