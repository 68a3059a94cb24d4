package segment

import (
	"strings"
	"testing"

	"github.com/sectionrank/sectionrank/internal/layout"
)

func span(text string, size float64, font string) layout.Span {
	return layout.Span{Text: text, Size: size, Font: font}
}

func block(spans ...layout.Span) layout.Block {
	return layout.Block{Lines: []layout.Line{{Spans: spans}}}
}

func TestIsHeader_BoldAlwaysWins(t *testing.T) {
	cfg := DefaultConfig()
	// Bold span far below the median size is still a header.
	s := span("Overview", 6, "Helvetica-Bold")
	if !IsHeader(s, 12, cfg) {
		t.Error("expected bold span to classify as header regardless of size")
	}
}

func TestIsHeader_WordCountCeiling(t *testing.T) {
	cfg := DefaultConfig()
	long := strings.Repeat("word ", 13)
	// Huge and bold, but too long to be a header.
	s := span(long, 40, "Helvetica-Bold")
	if IsHeader(s, 12, cfg) {
		t.Error("expected span with more than 12 words to be rejected")
	}
}

func TestIsHeader_SizeRatio(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		size float64
		want bool
	}{
		{"well above threshold", 14, true},
		{"exactly at threshold", 11.5, false}, // must exceed, not equal
		{"below threshold", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := span("Introduction", tt.size, "Helvetica")
			if got := IsHeader(s, 10, cfg); got != tt.want {
				t.Errorf("size %.1f vs median 10: got %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestIsHeader_EmptyText(t *testing.T) {
	cfg := DefaultConfig()
	if IsHeader(span("   ", 40, "Helvetica-Bold"), 10, cfg) {
		t.Error("expected whitespace-only span to be rejected")
	}
}

func TestPages_NoHeadersYieldsNoSections(t *testing.T) {
	page := layout.Page{Number: 1, Blocks: []layout.Block{
		block(span("just some ordinary body text here", 10, "Helvetica")),
		block(span("and another plain paragraph follows it", 10, "Helvetica")),
	}}

	sections := Pages([]layout.Page{page}, DefaultConfig())
	if len(sections) != 0 {
		t.Fatalf("expected 0 sections for a page with no headers, got %d", len(sections))
	}
}

func TestPages_TextBeforeFirstHeaderDropped(t *testing.T) {
	body := strings.Repeat("content before any heading ", 3)
	page := layout.Page{Number: 1, Blocks: []layout.Block{
		block(span(body, 10, "Helvetica")),
		block(span("Getting Started", 14, "Helvetica-Bold")),
		block(span("the actual section body text", 10, "Helvetica")),
	}}

	sections := Pages([]layout.Page{page}, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	sec := sections[0]
	if sec.Title != "Getting Started" {
		t.Errorf("expected title %q, got %q", "Getting Started", sec.Title)
	}
	if len(sec.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(sec.Chunks))
	}
	if strings.Contains(sec.Chunks[0].Text, "before any heading") {
		t.Error("text before the first header leaked into a section")
	}
}

func TestPages_ShortBodyYieldsTitleOnlySection(t *testing.T) {
	page := layout.Page{Number: 2, Blocks: []layout.Block{
		block(span("Notes", 14, "Helvetica-Bold")),
		block(span("ok", 10, "Helvetica")),
	}}

	sections := Pages([]layout.Page{page}, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].Chunks) != 0 {
		t.Errorf("expected no chunks for sub-threshold body, got %d", len(sections[0].Chunks))
	}
	if sections[0].Page != 2 {
		t.Errorf("expected page 2, got %d", sections[0].Page)
	}
}

func TestPages_MultipleSectionsAccumulateBodies(t *testing.T) {
	page := layout.Page{Number: 1, Blocks: []layout.Block{
		block(span("First Section", 14, "Helvetica-Bold")),
		block(span("first body part one", 10, "Helvetica")),
		block(span("first body part two", 10, "Helvetica")),
		block(span("Second Section", 14, "Helvetica-Bold")),
		block(span("second body", 10, "Helvetica")),
	}}

	sections := Pages([]layout.Page{page}, DefaultConfig())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if got := sections[0].Chunks[0].Text; got != "first body part one first body part two" {
		t.Errorf("unexpected accumulated body: %q", got)
	}
	if sections[1].Chunks[0].SectionTitle != "Second Section" {
		t.Errorf("chunk back-reference mismatch: %q", sections[1].Chunks[0].SectionTitle)
	}
}

func TestPages_SectionCursorResetsPerPage(t *testing.T) {
	pages := []layout.Page{
		{Number: 1, Blocks: []layout.Block{
			block(span("Page One Heading", 14, "Helvetica-Bold")),
			block(span("page one body text", 10, "Helvetica")),
		}},
		{Number: 2, Blocks: []layout.Block{
			// No header on page 2: its text is dropped, not appended to the
			// section left open on page 1.
			block(span("orphan text on the second page", 10, "Helvetica")),
		}},
	}

	sections := Pages(pages, DefaultConfig())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if strings.Contains(sections[0].Chunks[0].Text, "orphan") {
		t.Error("page 2 text leaked into the page 1 section")
	}
}

func TestMedianFontSize(t *testing.T) {
	cfg := DefaultConfig()

	// Whitespace-only spans are not measurable: fall back to the constant.
	empty := layout.Page{Number: 1, Blocks: []layout.Block{
		block(span("   ", 10, "Helvetica")),
	}}
	if got := medianFontSize(empty, cfg.FallbackFontSize); got != 12.0 {
		t.Errorf("expected fallback 12.0, got %.1f", got)
	}

	// Even span count: median is the mean of the middle two.
	page := layout.Page{Number: 1, Blocks: []layout.Block{
		block(span("a", 8, "F"), span("b", 10, "F"), span("c", 12, "F"), span("d", 20, "F")),
	}}
	if got := medianFontSize(page, cfg.FallbackFontSize); got != 11.0 {
		t.Errorf("expected median 11.0, got %.1f", got)
	}
}

func TestBuild_MinChunkBoundary(t *testing.T) {
	cfg := DefaultConfig()

	sec := Build("T", 1, "12345", cfg) // exactly MinChunkLength, must not chunk
	if len(sec.Chunks) != 0 {
		t.Errorf("expected no chunk at exactly the threshold, got %d", len(sec.Chunks))
	}

	sec = Build("T", 1, "123456", cfg)
	if len(sec.Chunks) != 1 {
		t.Fatalf("expected 1 chunk above the threshold, got %d", len(sec.Chunks))
	}
	if sec.Chunks[0].SectionTitle != "T" || sec.Chunks[0].Page != 1 {
		t.Errorf("unexpected chunk metadata: %+v", sec.Chunks[0])
	}
}
