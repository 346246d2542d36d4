package mcpserver

// StrategiesContract documents the block boundary strategies for LLM
// consumers calling the extract_blocks tool.
const StrategiesContract = `# Coalesce Block Boundary Strategies

When a note references another with a [[wikilink]], Coalesce can extract the
surrounding block of text from the referencing note. A boundary strategy
decides where that block ends. Every block starts at the beginning of the
line containing the reference.

## default

The block runs until the first of:

1. The next horizontal rule: a line of three or more hyphens (` + "`---`" + `,
   ` + "`----`" + `, ...). Lines containing a pipe character are skipped, so
   Markdown table separator rows do not cut blocks short.
2. The next occurrence of the plain reference ` + "`[[note]]`" + ` after the
   current one.

If neither appears, the block runs to the end of the file.

## headers-only

Same scan as default, but only blocks containing a Markdown heading of level
one through five (` + "`#`" + ` to ` + "`#####`" + ` followed by a space) are kept.
Level-six headings do not count.

## top-line

The block is exactly the line containing the reference.

## Records

Each extracted block reports its source path, 1-based start and end lines,
the first heading inside the block (if any) with its level, and whether the
block carries a literal backlink line (` + "`[[note]]`" + `, ` + "`[[note|`" + `,
` + "`[[./note`" + ` or ` + "`[[../note`" + `).
`
