// Package parser converts raw document bytes into segmented documents.
// PDF files go through font-based layout segmentation; structured formats
// (markdown, HTML, docx) use their heading markup as the header signal.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// Parser converts one document into an ordered list of sections.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".txt":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, cfg segment.Config) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return &PDFParser{Segment: cfg}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Segment: cfg}, nil
	case ".html", ".htm":
		return &HTMLParser{Segment: cfg}, nil
	case ".docx":
		return &DOCXParser{Segment: cfg}, nil
	case ".txt":
		return &TextParser{Segment: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
