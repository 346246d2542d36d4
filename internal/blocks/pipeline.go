package blocks

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Strategy names accepted by the pipeline.
const (
	StrategyDefault     = "default"
	StrategyHeadersOnly = "headers-only"
	StrategyTopLine     = "top-line"
)

// StrategyNames lists every registered strategy name.
func StrategyNames() []string {
	return []string{StrategyDefault, StrategyHeadersOnly, StrategyTopLine}
}

var strategyRegistry = map[string]Strategy{
	StrategyDefault:     DefaultStrategy{},
	StrategyHeadersOnly: HeadersOnlyStrategy{},
	StrategyTopLine:     TopLineStrategy{},
}

// BlockRecord is one extracted block, ready for display.
//
// IsVisible and IsCollapsed are presentation flags owned by the consumer
// after creation; the pipeline never mutates a record once returned.
type BlockRecord struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	SourcePath      string `json:"source_path"`
	StartLine       int    `json:"start_line"`
	EndLine         int    `json:"end_line"`
	Heading         string `json:"heading,omitempty"`
	HeadingLevel    int    `json:"heading_level,omitempty"`
	HasBacklinkLine bool   `json:"has_backlink_line"`
	IsVisible       bool   `json:"is_visible"`
	IsCollapsed     bool   `json:"is_collapsed"`
}

// Pipeline drives reference scanning and boundary extraction for one
// configuration. It is stateless between calls and safe for concurrent use.
type Pipeline struct {
	logger    *slog.Logger
	collapsed bool
}

// NewPipeline creates a pipeline. collapsed is the initial collapse state
// assigned to every produced record.
func NewPipeline(logger *slog.Logger, collapsed bool) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, collapsed: collapsed}
}

// resolveStrategy maps a strategy name to its implementation. Unknown names
// fall back to the default strategy instead of failing.
func (p *Pipeline) resolveStrategy(name string) Strategy {
	if s, ok := strategyRegistry[name]; ok {
		return s
	}
	p.logger.Warn("blocks: unknown strategy, using default", slog.String("strategy", name))
	return strategyRegistry[StrategyDefault]
}

// Extract scans content for references to noteName and returns one record
// per reference that survives the strategy's validity check, in document
// order. Overlapping records from nearby references are emitted as-is, one
// per reference.
//
// Failures are contained at this boundary: on any error the whole call
// returns an empty list, never a partial one, so one malformed file cannot
// abort extraction for a batch of files upstream.
func (p *Pipeline) Extract(content, noteName, strategyName, sourcePath string) (records []BlockRecord) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("blocks: extraction panicked",
				slog.String("source", sourcePath),
				slog.Any("panic", r))
			records = []BlockRecord{}
		}
	}()

	strat := p.resolveStrategy(strategyName)
	matches := FindReferences(content, noteName)
	records = make([]BlockRecord, 0, len(matches))
	stamp := time.Now().UnixNano()

	for seq, m := range matches {
		b, err := strat.DetermineBoundary(content, m, noteName)
		if err != nil {
			p.logger.Error("blocks: extraction failed",
				slog.String("source", sourcePath),
				slog.String("error", err.Error()))
			return []BlockRecord{}
		}
		if !strat.IsValidBlock(content, b) {
			continue
		}
		records = append(records, p.materialize(content, noteName, sourcePath, b, seq, stamp))
	}
	return records
}

// materialize converts a validated boundary into a BlockRecord.
func (p *Pipeline) materialize(content, noteName, sourcePath string, b Boundary, seq int, stamp int64) BlockRecord {
	slice := content[b.Start:b.End]
	heading, level := firstHeading(slice)
	return BlockRecord{
		// Stable within one extraction run only.
		ID:              fmt.Sprintf("%s-%d-%d", sourcePath, seq, stamp),
		Content:         slice,
		SourcePath:      sourcePath,
		StartLine:       1 + strings.Count(content[:b.Start], "\n"),
		EndLine:         1 + strings.Count(content[:b.End], "\n"),
		Heading:         heading,
		HeadingLevel:    level,
		HasBacklinkLine: hasBacklinkLine(slice, noteName),
		IsVisible:       true,
		IsCollapsed:     p.collapsed,
	}
}

// ExtractBlocks is the package-level entry point: it extracts blocks with
// default presentation flags and the default logger.
func ExtractBlocks(content, targetNoteName, strategyName string) []BlockRecord {
	return NewPipeline(nil, false).Extract(content, targetNoteName, strategyName, "")
}

var headingCaptureRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// firstHeading returns the text and level of the first heading line in
// content, or ("", 0) when there is none.
func firstHeading(content string) (string, int) {
	for _, line := range strings.Split(content, "\n") {
		if m := headingCaptureRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[2]), len(m[1])
		}
	}
	return "", 0
}

// hasBacklinkLine reports whether any line of content references noteName in
// one of the four accepted bracket forms: plain, aliased, ./-prefixed,
// ../-prefixed.
func hasBacklinkLine(content, noteName string) bool {
	forms := []string{
		"[[" + noteName + "]]",
		"[[" + noteName + "|",
		"[[./" + noteName,
		"[[../" + noteName,
	}
	for _, line := range strings.Split(content, "\n") {
		for _, f := range forms {
			if strings.Contains(line, f) {
				return true
			}
		}
	}
	return false
}
