// Package blocks extracts self-contained display blocks around wiki-style
// references to a target note.
package blocks

import (
	"regexp"
)

// ReferenceMatch is one occurrence of a wikilink to the target note.
type ReferenceMatch struct {
	// MatchIndex is the zero-based character offset where the match begins.
	MatchIndex int
	// MatchText is the literal matched substring, e.g. [[Note|alias]].
	MatchText string
}

// FindReferences returns every wikilink to noteName inside text, in document
// order. A reference is the bracket pair [[...]] enclosing zero or more path
// segments ending in "/", followed by exactly noteName, optionally followed
// by "|" and an alias. noteName is matched literally after escaping; callers
// are responsible for passing a non-empty identifier, and an empty name
// yields no matches.
func FindReferences(text, noteName string) []ReferenceMatch {
	if noteName == "" {
		return nil
	}
	re := referencePattern(noteName)
	locs := re.FindAllStringIndex(text, -1)
	out := make([]ReferenceMatch, 0, len(locs))
	for _, loc := range locs {
		out = append(out, ReferenceMatch{
			MatchIndex: loc[0],
			MatchText:  text[loc[0]:loc[1]],
		})
	}
	return out
}

func referencePattern(noteName string) *regexp.Regexp {
	return regexp.MustCompile(`\[\[(?:[^\[\]|]*/)?` + regexp.QuoteMeta(noteName) + `(?:\|[^\]]*)?\]\]`)
}
