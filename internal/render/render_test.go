package render

import (
	"strings"
	"testing"

	"github.com/bfloydd/coalesce/internal/blocks"
)

func TestHTML_BasicMarkdown(t *testing.T) {
	r := New(2)
	out, err := r.HTML("# Title\n\nsome *emphasis*\n")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, "<h1>") || !strings.Contains(out, "<em>emphasis</em>") {
		t.Errorf("out = %q", out)
	}
}

func TestHTML_TableExtension(t *testing.T) {
	r := New(2)
	out, err := r.HTML("| a | b |\n| --- | --- |\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("table not rendered: %q", out)
	}
}

func TestBlockHTML_TitleAtHeaderStyle(t *testing.T) {
	r := New(3)
	out, err := r.BlockHTML(blocks.BlockRecord{
		Content:   "body text\n",
		Heading:   "Section <x>",
		IsVisible: true,
	})
	if err != nil {
		t.Fatalf("BlockHTML: %v", err)
	}
	if !strings.HasPrefix(out, "<h3>Section &lt;x&gt;</h3>") {
		t.Errorf("out = %q", out)
	}
}

func TestBlockHTML_HiddenBlockIsEmpty(t *testing.T) {
	r := New(2)
	out, err := r.BlockHTML(blocks.BlockRecord{Content: "x", IsVisible: false})
	if err != nil {
		t.Fatalf("BlockHTML: %v", err)
	}
	if out != "" {
		t.Errorf("out = %q, want empty", out)
	}
}

func TestNew_ClampsHeaderStyle(t *testing.T) {
	for _, style := range []int{-1, 0, 7, 99} {
		r := New(style)
		if r.headerStyle < 1 || r.headerStyle > 6 {
			t.Errorf("New(%d).headerStyle = %d", style, r.headerStyle)
		}
	}
}
