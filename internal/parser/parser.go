// Package parser extracts frontmatter, wikilink targets, and tags from
// Markdown note content.
package parser

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of parsing one Markdown note.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Links       []string // normalized wikilink targets (note name stems)
	Tags        []string
	Title       string
}

// Parse extracts frontmatter, body, wikilink targets, and tags from raw
// Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Links:       extractLinks(body),
		Tags:        extractTags(body, fm),
		Title:       deriveTitle(fm, body),
	}, nil
}

// NoteName returns the identifier used for wikilink matching: the file name
// without directories or the .md extension.
func NoteName(notePath string) string {
	return strings.TrimSuffix(path.Base(notePath), ".md")
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the Markdown body. Missing or invalid frontmatter is not
// an error; the entire content becomes the body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), nil
	}

	var fm map[string]interface{}
	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return nil, string(data), nil
	}

	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return fm, body, nil
}

// extractLinks returns deduplicated wikilink target names from body.
// Aliases, relative prefixes (./ and ../), and directory segments are
// stripped so targets align with the note name stems the block scanner and
// backlink index operate on.
func extractLinks(body string) []string {
	seen := make(map[string]struct{})
	var out []string

	rest := body
	for {
		open := strings.Index(rest, "[[")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open:], "]]")
		if end < 0 {
			break
		}
		inner := rest[open+2 : open+end]
		rest = rest[open+end+2:]

		if i := strings.Index(inner, "|"); i >= 0 {
			inner = inner[:i]
		}
		inner = strings.TrimSpace(inner)
		inner = strings.TrimPrefix(inner, "./")
		for strings.HasPrefix(inner, "../") {
			inner = strings.TrimPrefix(inner, "../")
		}
		if i := strings.LastIndex(inner, "/"); i >= 0 {
			inner = inner[i+1:]
		}
		if inner == "" {
			continue
		}
		if _, dup := seen[inner]; dup {
			continue
		}
		seen[inner] = struct{}{}
		out = append(out, inner)
	}
	return out
}

// extractTags collects #tags from body plus the frontmatter "tags" list.
func extractTags(body string, fm map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	if fm != nil {
		if raw, ok := fm["tags"].([]interface{}); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if s, ok := fm["title"].(string); ok && s != "" {
			return s
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
