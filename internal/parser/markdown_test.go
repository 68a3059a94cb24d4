package parser

import (
	"strings"
	"testing"

	"github.com/sectionrank/sectionrank/internal/segment"
)

func TestMarkdownParser_HeadingsOpenSections(t *testing.T) {
	input := "preamble that belongs to no section\n\n" +
		"# Installation\n\nRun the installer and follow the prompts carefully.\n\n" +
		"## Configuration\n\nEdit the settings file before the first start.\n"

	p := &MarkdownParser{Segment: segment.DefaultConfig()}
	doc, err := p.Parse(strings.NewReader(input), "guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Installation" {
		t.Errorf("expected title %q, got %q", "Installation", doc.Sections[0].Title)
	}
	if doc.Sections[1].Title != "Configuration" {
		t.Errorf("expected title %q, got %q", "Configuration", doc.Sections[1].Title)
	}
	for i, sec := range doc.Sections {
		if len(sec.Chunks) != 1 {
			t.Errorf("section %d: expected 1 chunk, got %d", i, len(sec.Chunks))
		}
	}
	if strings.Contains(doc.Sections[0].Chunks[0].Text, "preamble") {
		t.Error("pre-heading text leaked into the first section")
	}
}

func TestMarkdownParser_ShortBodyStaysTitleOnly(t *testing.T) {
	input := "# Stub\n\nok\n"
	p := &MarkdownParser{Segment: segment.DefaultConfig()}
	doc, err := p.Parse(strings.NewReader(input), "stub.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	if len(doc.Sections[0].Chunks) != 0 {
		t.Errorf("expected no chunk for sub-threshold body, got %d", len(doc.Sections[0].Chunks))
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	p := &MarkdownParser{Segment: segment.DefaultConfig()}
	doc, err := p.Parse(strings.NewReader("just text, no headings anywhere"), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections without headings, got %d", len(doc.Sections))
	}
}

func TestForFile(t *testing.T) {
	cfg := segment.DefaultConfig()

	for _, name := range []string{"a.pdf", "b.md", "c.html", "d.docx", "e.txt", "F.PDF"} {
		if _, err := ForFile(name, cfg); err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}

	if _, err := ForFile("x.xlsx", cfg); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("x.xlsx") {
		t.Error("xlsx should not be supported")
	}
}
