// Package blockservice assembles the backlink block view for a target note:
// it resolves which files reference the note, extracts the block around each
// reference, and applies the configured presentation policy.
package blockservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bfloydd/coalesce/internal/blocks"
	"github.com/bfloydd/coalesce/internal/index"
	"github.com/bfloydd/coalesce/internal/parser"
	"github.com/bfloydd/coalesce/internal/storage"
)

// maxConcurrentReads bounds parallel source-file reads during one view build.
const maxConcurrentReads = 8

// Options control extraction and presentation of backlink blocks.
type Options struct {
	// Strategy is a blocks strategy name; unknown names fall back to the
	// default strategy.
	Strategy string
	// SortBy orders source groups by "path" (default) or by "lines", the
	// start line of each group's first block.
	SortBy string
	// SortOrder is "asc" (default) or "desc".
	SortOrder string
	// OnlyBacklinkLines hides blocks whose content carries no backlink line
	// by clearing their IsVisible flag.
	OnlyBacklinkLines bool
	// Collapsed is the initial collapse state for every block.
	Collapsed bool
}

// SourceBlocks groups the blocks extracted from one referencing file.
type SourceBlocks struct {
	SourcePath string               `json:"source_path"`
	Blocks     []blocks.BlockRecord `json:"blocks"`
}

// Result is the backlink block view for one target note.
type Result struct {
	NoteName string         `json:"note_name"`
	Sources  []SourceBlocks `json:"sources"`
	Total    int            `json:"total"`   // all extracted blocks
	Visible  int            `json:"visible"` // blocks with IsVisible still set
}

// Service builds backlink block views from the index and vault storage.
type Service struct {
	store  storage.Provider
	db     *index.DB
	logger *slog.Logger
}

// NewService creates a backlink block service.
func NewService(store storage.Provider, db *index.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, db: db, logger: logger}
}

// BacklinkBlocks returns the backlink view for the note at notePath. Source
// files are read and scanned in parallel; each file is independent, so one
// unreadable file only drops its own group from the result.
func (s *Service) BacklinkBlocks(ctx context.Context, notePath string, opts Options) (*Result, error) {
	name := parser.NoteName(notePath)
	if name == "" {
		return nil, fmt.Errorf("blockservice: empty note name for path %q", notePath)
	}

	sources, err := s.db.Backlinks(name)
	if err != nil {
		return nil, fmt.Errorf("blockservice: backlinks for %q: %w", name, err)
	}

	pipeline := blocks.NewPipeline(s.logger, opts.Collapsed)
	groups := make([]*SourceBlocks, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, src := range sources {
		if src == notePath {
			// A note does not backlink itself.
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := s.store.Read(src)
			if err != nil {
				s.logger.Warn("blockservice: read failed",
					slog.String("source", src),
					slog.String("error", err.Error()))
				return nil
			}
			recs := pipeline.Extract(string(data), name, opts.Strategy, src)
			if len(recs) == 0 {
				return nil
			}
			groups[i] = &SourceBlocks{SourcePath: src, Blocks: recs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{NoteName: name, Sources: make([]SourceBlocks, 0, len(groups))}
	for _, grp := range groups {
		if grp == nil {
			continue
		}
		if opts.OnlyBacklinkLines {
			hideNonBacklinkBlocks(grp.Blocks)
		}
		for _, b := range grp.Blocks {
			res.Total++
			if b.IsVisible {
				res.Visible++
			}
		}
		res.Sources = append(res.Sources, *grp)
	}

	less := func(i, j int) bool {
		if opts.SortBy == "lines" {
			li, lj := firstLine(res.Sources[i]), firstLine(res.Sources[j])
			if li != lj {
				return li < lj
			}
		}
		return res.Sources[i].SourcePath < res.Sources[j].SourcePath
	}
	sort.Slice(res.Sources, func(i, j int) bool {
		if opts.SortOrder == "desc" {
			return less(j, i)
		}
		return less(i, j)
	})

	return res, nil
}

// firstLine is the start line of a group's first block; groups are never
// empty by construction.
func firstLine(g SourceBlocks) int {
	return g.Blocks[0].StartLine
}

// ExtractFile extracts blocks for noteName from a single vault file. Used by
// the MCP extract_blocks tool.
func (s *Service) ExtractFile(_ context.Context, sourcePath, noteName string, opts Options) ([]blocks.BlockRecord, error) {
	data, err := s.store.Read(sourcePath)
	if err != nil {
		return nil, err
	}
	recs := blocks.NewPipeline(s.logger, opts.Collapsed).Extract(string(data), noteName, opts.Strategy, sourcePath)
	if opts.OnlyBacklinkLines {
		hideNonBacklinkBlocks(recs)
	}
	return recs, nil
}

// hideNonBacklinkBlocks clears IsVisible on blocks without a backlink line.
// Records are mutated in place; presentation flags are the one mutable part
// of a BlockRecord after extraction.
func hideNonBacklinkBlocks(recs []blocks.BlockRecord) {
	for i := range recs {
		if !recs[i].HasBacklinkLine {
			recs[i].IsVisible = false
		}
	}
}
