package parser

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// TextParser handles plain text files. There is no header signal to segment
// on, so the whole file becomes one section titled after the filename.
type TextParser struct {
	Segment segment.Config
}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var body strings.Builder
	for scanner.Scan() {
		if t := segment.Normalize(scanner.Text()); t != "" {
			body.WriteString(t)
			body.WriteString(" ")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &doctree.Document{Name: filename}
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if strings.TrimSpace(body.String()) != "" {
		doc.Sections = append(doc.Sections, segment.Build(title, 1, body.String(), p.Segment))
	}
	return doc, nil
}
