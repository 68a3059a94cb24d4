package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/layout"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// PDFParser segments PDF files by detecting headers with page-local font
// statistics and consolidating all text between them.
type PDFParser struct {
	Segment segment.Config
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// The PDF library needs a seekable file with a known size, so buffer
	// through a temp file.
	tmp, err := os.CreateTemp("", "sectionrank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := layout.ExtractFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf layout: %w", err)
	}

	return &doctree.Document{
		Name:     filename,
		Sections: segment.Pages(pages, p.Segment),
	}, nil
}
