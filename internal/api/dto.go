package api

import (
	"github.com/bfloydd/coalesce/internal/blockservice"
	"github.com/bfloydd/coalesce/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// BacklinksResponse is the raw backlink block view (aliased from the domain layer).
type BacklinksResponse = blockservice.Result

// RenderedBacklinks is the backlink block view with blocks rendered to HTML.
type RenderedBacklinks struct {
	NoteName string           `json:"note_name" example:"TargetNote" validate:"required"`
	Sources  []RenderedSource `json:"sources" validate:"required"`
	Total    int              `json:"total" example:"3" validate:"required"`
	Visible  int              `json:"visible" example:"2" validate:"required"`
}

// RenderedSource groups the rendered blocks from one referencing file.
type RenderedSource struct {
	SourcePath string          `json:"source_path" example:"notes/daily.md" validate:"required"`
	Blocks     []RenderedBlock `json:"blocks" validate:"required"`
}

// RenderedBlock is one extracted block converted to an HTML fragment.
type RenderedBlock struct {
	ID        string `json:"id" example:"notes/daily.md-0-1700000000000" validate:"required"`
	HTML      string `json:"html" validate:"required"`
	StartLine int    `json:"start_line" example:"4" validate:"required"`
	EndLine   int    `json:"end_line" example:"9" validate:"required"`
}
